package job

import (
	"strconv"

	"github.com/akeren/jobtracker-api/config/router"
)

func NewJobController(service JobService) *router.RESTController {
	return router.NewVersionedRESTController(
		"JobController",
		"v1",
		"/jobs",
		func(rs *router.RouterService, c *router.RESTController) {
			adminOnly := rs.AdminOnly()

			rs.AddPostHandler(c, nil, "", createJobHandler(service), adminOnly)
			rs.AddGetHandler(c, nil, "", listJobsHandler(service), adminOnly)
			rs.AddGetHandler(c, nil, "/:id", getJobHandler(service), adminOnly)
			rs.AddPutHandler(c, nil, "/:id", updateJobHandler(service), adminOnly)
			rs.AddPatchHandler(c, nil, "/:id/status", updateJobStatusHandler(service), adminOnly)
			rs.AddDeleteHandler(c, nil, "/:id", deleteJobHandler(service), adminOnly)
		},
	)
}

func createJobHandler(service JobService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		var req CreateJobRequest
		if errResult := router.BindJSON(ctx, &req); errResult != nil {
			return errResult
		}

		response, err := service.CreateJob(ctx.Request.Context(), &req)
		if err != nil {
			return router.AppErrorResult(err)
		}

		return router.CreatedResult(response, "Job created successfully")
	}
}

func listJobsHandler(service JobService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		page := router.ParsePageQuery(ctx)

		filter := ListFilter{
			Status: ctx.Query("status"),
			Offset: page.Offset(),
			Limit:  page.PageSize,
		}

		if raw := ctx.Query("customer_id"); raw != "" {
			customerID, err := strconv.ParseUint(raw, 10, 32)
			if err != nil || customerID == 0 {
				return router.BadRequestResult("customer_id must be a positive integer", nil)
			}
			filter.CustomerID = uint(customerID)
		}

		jobs, total, err := service.ListJobs(ctx.Request.Context(), filter)
		if err != nil {
			return router.AppErrorResult(err)
		}

		return router.OKResult(router.Page[JobResponse]{
			Items:    jobs,
			Page:     page.Page,
			PageSize: page.PageSize,
			Total:    total,
		}, "Jobs retrieved successfully")
	}
}

func getJobHandler(service JobService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		id, errResult := router.ParseIDParam(ctx, "id")
		if errResult != nil {
			return errResult
		}

		response, err := service.FindJobByID(ctx.Request.Context(), id)
		if err != nil {
			return router.AppErrorResult(err)
		}

		return router.OKResult(response, "Job retrieved successfully")
	}
}

func updateJobHandler(service JobService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		id, errResult := router.ParseIDParam(ctx, "id")
		if errResult != nil {
			return errResult
		}

		var req UpdateJobRequest
		if errResult := router.BindJSON(ctx, &req); errResult != nil {
			return errResult
		}

		response, err := service.UpdateJob(ctx.Request.Context(), id, &req)
		if err != nil {
			return router.AppErrorResult(err)
		}

		return router.OKResult(response, "Job updated successfully")
	}
}

func updateJobStatusHandler(service JobService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		id, errResult := router.ParseIDParam(ctx, "id")
		if errResult != nil {
			return errResult
		}

		var req UpdateJobStatusRequest
		if errResult := router.BindJSON(ctx, &req); errResult != nil {
			return errResult
		}

		response, err := service.UpdateStatus(ctx.Request.Context(), id, req.Status)
		if err != nil {
			return router.AppErrorResult(err)
		}

		return router.OKResult(response, "Job status updated successfully")
	}
}

func deleteJobHandler(service JobService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		id, errResult := router.ParseIDParam(ctx, "id")
		if errResult != nil {
			return errResult
		}

		if err := service.DeleteJob(ctx.Request.Context(), id); err != nil {
			return router.AppErrorResult(err)
		}

		return router.OKResult(nil, "Job deleted successfully")
	}
}
