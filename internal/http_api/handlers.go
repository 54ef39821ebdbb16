package http_api

import (
	"errors"
	"net/http"

	"github.com/frkn-dev/trialgate/internal/models"
	"github.com/frkn-dev/trialgate/internal/trial"
	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest     = "Trial request is not valid"
	msgAlreadyRequested   = "Trial already requested"
	msgSubscriptionFailed = "Failed to create subscription"
	msgActivatedWithEmail = "Trial activated. Check your email."
	msgActivated          = "Trial activated."
)

// trial is the handler for POST /trial. Failures are always delivered
// as a 200 with status "error" in the payload, never as a transport
// error, so the public form can render them directly.
func (s *HTTPServer) trial(c *gin.Context) {
	var req models.TrialRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Debug("Invalid request body", "error", err)
		s.respondError(c, msgInvalidRequest)
		return
	}

	if !req.Validate() {
		s.logger.Debug("Trial request failed validation")
		s.respondError(c, msgInvalidRequest)
		return
	}

	subID, err := s.trials.Activate(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, trial.ErrAlreadyRequested) {
			s.respondError(c, msgAlreadyRequested)
			return
		}
		s.respondError(c, msgSubscriptionFailed)
		return
	}

	message := msgActivated
	if req.Email != nil {
		message = msgActivatedWithEmail
	}

	id := subID.String()
	c.JSON(http.StatusOK, models.TrialResponse{
		Status:  "ok",
		Message: message,
		SubID:   &id,
	})
}

func (s *HTTPServer) respondError(c *gin.Context, message string) {
	c.JSON(http.StatusOK, models.TrialResponse{
		Status:  "error",
		Message: message,
	})
}
