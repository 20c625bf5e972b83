package customer

import (
	"github.com/akeren/jobtracker-api/config/router"
)

func NewCustomerController(service CustomerService) *router.RESTController {
	return router.NewVersionedRESTController(
		"CustomerController",
		"v1",
		"/customers",
		func(rs *router.RouterService, c *router.RESTController) {
			adminOnly := rs.AdminOnly()

			rs.AddPostHandler(c, nil, "", createCustomerHandler(service), adminOnly)
			rs.AddGetHandler(c, nil, "", listCustomersHandler(service), adminOnly)
			rs.AddGetHandler(c, nil, "/:id", getCustomerHandler(service), adminOnly)
			rs.AddPutHandler(c, nil, "/:id", updateCustomerHandler(service), adminOnly)
			rs.AddDeleteHandler(c, nil, "/:id", deleteCustomerHandler(service), adminOnly)
		},
	)
}

func createCustomerHandler(service CustomerService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		var req CustomerRequest
		if errResult := router.BindJSON(ctx, &req); errResult != nil {
			return errResult
		}

		response, err := service.CreateCustomer(ctx.Request.Context(), &req)
		if err != nil {
			return router.AppErrorResult(err)
		}

		return router.CreatedResult(response, "Customer created successfully")
	}
}

func listCustomersHandler(service CustomerService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		page := router.ParsePageQuery(ctx)

		customers, total, err := service.ListCustomers(ctx.Request.Context(), ctx.Query("search"), page.Page, page.PageSize)
		if err != nil {
			return router.AppErrorResult(err)
		}

		return router.OKResult(router.Page[CustomerResponse]{
			Items:    customers,
			Page:     page.Page,
			PageSize: page.PageSize,
			Total:    total,
		}, "Customers retrieved successfully")
	}
}

func getCustomerHandler(service CustomerService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		id, errResult := router.ParseIDParam(ctx, "id")
		if errResult != nil {
			return errResult
		}

		response, err := service.FindCustomerByID(ctx.Request.Context(), id)
		if err != nil {
			return router.AppErrorResult(err)
		}

		return router.OKResult(response, "Customer retrieved successfully")
	}
}

func updateCustomerHandler(service CustomerService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		id, errResult := router.ParseIDParam(ctx, "id")
		if errResult != nil {
			return errResult
		}

		var req CustomerRequest
		if errResult := router.BindJSON(ctx, &req); errResult != nil {
			return errResult
		}

		response, err := service.UpdateCustomer(ctx.Request.Context(), id, &req)
		if err != nil {
			return router.AppErrorResult(err)
		}

		return router.OKResult(response, "Customer updated successfully")
	}
}

func deleteCustomerHandler(service CustomerService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		id, errResult := router.ParseIDParam(ctx, "id")
		if errResult != nil {
			return errResult
		}

		if err := service.DeleteCustomer(ctx.Request.Context(), id); err != nil {
			return router.AppErrorResult(err)
		}

		return router.OKResult(nil, "Customer deleted successfully")
	}
}
