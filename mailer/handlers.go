package mailer

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"bitbucket.org/mmdatafocus/salesfield_backend/config"
)

func statusForCode(code string) int {
	switch code {
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeFailedPrecondition:
		return http.StatusPreconditionFailed
	default:
		return http.StatusInternalServerError
	}
}

// SendSalesRequisitionHandler is the callable mail endpoint. The caller must
// present the deployment's bearer token; the response carries a structured
// error code on failure.
func SendSalesRequisitionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		sender, ok := authenticate(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"status": CodeUnauthenticated, "message": "User must be authenticated to send emails"},
			})
			return
		}

		var req SendRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": gin.H{"status": CodeInvalidArgument, "message": "invalid request"},
			})
			return
		}

		client, err := config.GetFirestore(c.Request.Context())
		if err != nil {
			config.LogError(logger, "mailer", "SendSalesRequisitionHandler", "firestore unavailable", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{"status": CodeInternal, "message": "service unavailable"},
			})
			return
		}

		m, err := NewMailerFromEnv(client, logger)
		if err != nil {
			respondSendError(c, err)
			return
		}

		if err := m.Send(c.Request.Context(), req, sender); err != nil {
			respondSendError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   "Email sent successfully to " + req.To,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func respondSendError(c *gin.Context, err error) {
	var sendErr *SendError
	if !errors.As(err, &sendErr) {
		sendErr = &SendError{Code: CodeInternal, Message: err.Error()}
	}
	c.JSON(statusForCode(sendErr.Code), gin.H{
		"error": gin.H{"status": sendErr.Code, "message": sendErr.Message},
	})
}

// authenticate checks the caller's bearer token against MAIL_API_TOKEN and
// returns the caller identity recorded on email logs.
func authenticate(c *gin.Context) (Sender, bool) {
	expected := strings.TrimSpace(os.Getenv("MAIL_API_TOKEN"))
	if expected == "" {
		return Sender{}, false
	}

	token := strings.TrimSpace(c.GetHeader("token"))
	if token == "" {
		auth := strings.TrimSpace(c.GetHeader("Authorization"))
		if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
			token = strings.TrimSpace(auth[7:])
		}
	}
	if token == "" || token != expected {
		return Sender{}, false
	}

	sender := Sender{
		Id:    strings.TrimSpace(c.GetHeader("X-Caller-Id")),
		Email: strings.TrimSpace(c.GetHeader("X-Caller-Email")),
	}
	if sender.Id == "" {
		sender.Id = "unknown"
	}
	return sender, true
}
