package waitlist

import (
	"strconv"

	"github.com/akeren/jobtracker-api/config/router"
	"github.com/akeren/jobtracker-api/pkg/constants"
	apperrors "github.com/akeren/jobtracker-api/pkg/errors"
)

// JoinedMessage is shared by new and duplicate signups so responses do not reveal which one occurred.
const JoinedMessage = "Thanks for joining the waitlist! We'll be in touch soon."

var rejectMessages = map[string]string{
	ReasonRateLimitHour:       "Too many signups from your network in the last hour. Please try again later.",
	ReasonRateLimitDay:        "Too many signups from your network today. Please try again tomorrow.",
	ReasonDisposableEmail:     "Disposable email addresses are not accepted. Please use a permanent email address.",
	ReasonSuspiciousEmail:     "This email address looks invalid. Please use a different email address.",
	ReasonSuspiciousUserAgent: "Your request could not be verified. Please sign up from a standard web browser.",
	ReasonTooManyEmailsPerIP:  "Too many different email addresses have signed up from your network. Please try again later.",
	ReasonSimilarEmails:       "Too many similar email addresses have signed up recently. Please try again later.",
}

// RejectMessage turns a reject reason into the sentence returned to the client.
func RejectMessage(reason string) string {
	if msg, ok := rejectMessages[reason]; ok {
		return msg
	}
	return "Your signup could not be processed right now. Please try again later."
}

func rejectError(reason string) error {
	if reason == ReasonInvalidFormat {
		return apperrors.NewInvalidRequestError("Please provide a valid email address", nil)
	}
	return apperrors.NewTooManyRequestsError(RejectMessage(reason), nil)
}

func NewWaitlistController(service WaitlistService) *router.RESTController {
	return router.NewVersionedRESTController(
		"WaitlistController",
		"v1",
		"/waitlist",
		func(rs *router.RouterService, c *router.RESTController) {
			joinLimiter := rs.Limiters().Create("waitlist", constants.WaitlistJoinRequests, constants.WaitlistJoinWindow)

			rs.AddPostHandler(c, joinLimiter, "", joinWaitlistHandler(service))
		},
	)
}

func NewWaitlistAdminController(service WaitlistService) *router.RESTController {
	return router.NewVersionedRESTController(
		"WaitlistAdminController",
		"v1",
		"/admin",
		func(rs *router.RouterService, c *router.RESTController) {
			adminOnly := rs.AdminOnly()

			rs.AddGetHandler(c, nil, "/spam-stats", spamStatsHandler(service), adminOnly)
			rs.AddGetHandler(c, nil, "/waitlist", listWaitlistEntriesHandler(service), adminOnly)
			rs.AddGetHandler(c, nil, "/waitlist/:id", getWaitlistEntryHandler(service), adminOnly)
			rs.AddDeleteHandler(c, nil, "/waitlist/:id", deleteWaitlistEntryHandler(service), adminOnly)
		},
	)
}

func joinWaitlistHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		var req JoinWaitlistRequest

		if errResult := router.BindJSON(ctx, &req); errResult != nil {
			return errResult
		}

		meta := RequestMeta{
			IPAddress: router.ClientIP(ctx),
			UserAgent: ctx.Request.UserAgent(),
		}

		result, err := service.Join(ctx.Request.Context(), &req, meta)
		if err != nil {
			return router.AppErrorResult(err)
		}

		switch result.Outcome {
		case OutcomeAccept:
			return router.CreatedResult(result.Entry, JoinedMessage)
		case OutcomeDuplicate:
			return router.OKResult(nil, JoinedMessage)
		}

		return router.AppErrorResult(rejectError(result.Reason))
	}
}

func spamStatsHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		hours, err := strconv.Atoi(ctx.DefaultQuery("hours", strconv.Itoa(constants.DefaultSpamStatsHours)))
		if err != nil {
			return router.BadRequestResult("hours must be a whole number", nil)
		}

		report, err := service.SpamStats(ctx.Request.Context(), hours)
		if err != nil {
			return router.AppErrorResult(err)
		}

		return router.OKResult(report, "Spam statistics retrieved successfully")
	}
}

func listWaitlistEntriesHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		page := router.ParsePageQuery(ctx)

		entries, total, err := service.ListEntries(ctx.Request.Context(), page.Page, page.PageSize)
		if err != nil {
			return router.AppErrorResult(err)
		}

		return router.OKResult(router.Page[WaitlistEntryResponse]{
			Items:    entries,
			Page:     page.Page,
			PageSize: page.PageSize,
			Total:    total,
		}, "Waitlist entries retrieved successfully")
	}
}

func getWaitlistEntryHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		id, errResult := router.ParseUUIDParam(ctx, "id")
		if errResult != nil {
			return errResult
		}

		response, err := service.FindEntryByID(ctx.Request.Context(), id)
		if err != nil {
			return router.AppErrorResult(err)
		}

		return router.OKResult(response, "Waitlist entry retrieved successfully")
	}
}

func deleteWaitlistEntryHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		id, errResult := router.ParseUUIDParam(ctx, "id")
		if errResult != nil {
			return errResult
		}

		if err := service.DeleteEntry(ctx.Request.Context(), id); err != nil {
			return router.AppErrorResult(err)
		}

		return router.OKResult(nil, "Waitlist entry deleted successfully")
	}
}
