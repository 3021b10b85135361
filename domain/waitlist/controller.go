package waitlist

import (
	"strconv"
	"time"

	"github.com/akeren/levelup-fit/config/router"
	apperrors "github.com/akeren/levelup-fit/pkg/errors"
	"github.com/akeren/levelup-fit/pkg/ratelimit"
)

const waitlistSubmitRequestsPerMinute = 30

func NewWaitlistController(service WaitlistService, sessionTTL time.Duration) *router.RESTController {
	return router.NewVersionedRESTController(
		"WaitlistController",
		"v1",
		"/waitlist",
		func(rs *router.RouterService, c *router.RESTController) {
			session := sessionMiddleware(sessionTTL)
			submitLimiter := createWaitlistSubmitRateLimiter(rs)

			rs.AddPostHandler(c, submitLimiter, "", joinWaitlistHandler(service), session)
			rs.AddGetHandler(c, nil, "/form", getFormHandler(service), session)
			rs.AddPatchHandler(c, nil, "/form", updateFormHandler(service), session)
			rs.AddPostHandler(c, submitLimiter, "/form/submit", submitFormHandler(service), session)
			rs.AddGetHandler(c, nil, "/notifications", getNotificationsHandler(service), session)
		},
	)
}

func createWaitlistSubmitRateLimiter(rs *router.RouterService) ratelimit.RateLimiter {
	return rs.NewScopedRateLimiter(waitlistSubmitRequestsPerMinute, time.Minute)
}

func joinWaitlistHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req JoinWaitlistRequest

		if err := ctx.ShouldBind(&req); err != nil {
			logger.Error("Failed to bind request", "error", err)

			validationErrors := apperrors.FormatValidationErrors(err, &req)
			if len(validationErrors) > 0 {
				return router.BadRequestResult("Invalid request payload", validationErrors)
			}

			return router.BadRequestResult("Invalid request body", nil)
		}

		response, err := service.Join(ctx.Request.Context(), sessionID(ctx), &req, waitRequested(ctx))
		if err != nil {
			return errorResult(err)
		}

		return submitResult(response)
	}
}

func getFormHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		snapshot, err := service.Snapshot(ctx.Request.Context(), sessionID(ctx))
		if err != nil {
			return errorResult(err)
		}

		return router.OKResult(snapshot, "Waitlist form retrieved successfully")
	}
}

func updateFormHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req UpdateFormRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind request", "error", err)

			validationErrors := apperrors.FormatValidationErrors(err, &req)
			if len(validationErrors) > 0 {
				return router.BadRequestResult("Invalid request payload", validationErrors)
			}

			return router.BadRequestResult("Invalid request body", nil)
		}

		snapshot, err := service.UpdateFields(ctx.Request.Context(), sessionID(ctx), &req)
		if err != nil {
			return errorResult(err)
		}

		return router.OKResult(snapshot, "Waitlist form updated successfully")
	}
}

func submitFormHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		response, err := service.Submit(ctx.Request.Context(), sessionID(ctx), waitRequested(ctx))
		if err != nil {
			return errorResult(err)
		}

		return submitResult(response)
	}
}

func getNotificationsHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		toasts, err := service.Notifications(ctx.Request.Context(), sessionID(ctx))
		if err != nil {
			return errorResult(err)
		}

		return router.OKResult(NotificationsResponse{Notifications: toasts}, "Notifications retrieved successfully")
	}
}

func submitResult(response *SubmitResponse) *router.ServiceResult {
	switch response.Outcome {
	case OutcomeRejected:
		return router.BadRequestResult(MessageMissingFields, response)
	case OutcomeIgnored:
		return router.OKResult(response, "A waitlist submission is already in progress")
	}

	if response.Form.Submitting {
		return router.AcceptedResult(response, "Waitlist submission started")
	}
	return router.OKResult(response, "Waitlist submission completed")
}

func errorResult(err error) *router.ServiceResult {
	return router.ErrorResult(
		apperrors.HTTPStatusCode(err),
		apperrors.GetHumanReadableMessage(err),
		nil,
	)
}

func waitRequested(ctx *router.RequestContext) bool {
	wait, err := strconv.ParseBool(ctx.Query("wait"))
	return err == nil && wait
}
