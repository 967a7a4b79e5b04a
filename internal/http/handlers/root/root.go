// Package root serves the informational landing endpoint.
package root

import (
	"net/http"

	"github.com/aanand-mishra/student-course-api/internal/utils/response"
)

// WelcomeMessage is the static body of GET /.
const WelcomeMessage = "Welcome to the Student/Course API. The routes under /students and /courses are described at /openapi.json."

// Welcome handles GET /.
func Welcome() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, map[string]string{"message": WelcomeMessage})
	}
}
