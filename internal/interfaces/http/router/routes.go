package router

import (
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/interfaces/http/handler"
)

// Handlers groups every resource handler mounted by Mount
type Handlers struct {
	System     *handler.SystemHandler
	Branch     *handler.BranchHandler
	Branchwise *handler.BranchwiseHandler
	Employee   *handler.EmployeeHandler
	Warehouse  *handler.WarehouseHandler
	Sequence   *handler.SequenceHandler
	Dispatch   *handler.DispatchHandler
	Transfer   *handler.TransferHandler
	Production *handler.ProductionHandler
	SaleOrder  *handler.OrderHandler
	HeldOrder  *handler.OrderHandler
	Invoice    *handler.InvoiceHandler
	Shift      *handler.ShiftHandler
}

// Mount registers the route table on r. Nil handlers are skipped.
func Mount(r *Router, h Handlers) *Router {
	if h.System != nil {
		system := NewDomainGroup("system", "")
		system.GET("/health", h.System.Health).Describe("liveness and database check").
			GET("/system/info", h.System.GetSystemInfo)
		r.Register(system)
	}

	if h.Branch != nil {
		g := NewDomainGroup("branch", "/branch")
		g.POST("", h.Branch.Create).
			GET("", h.Branch.List).
			GET("/alias", h.Branch.ResolveAlias).Describe("resolve a branch alias by name").
			GET("/:id", h.Branch.GetByID).
			PATCH("/:id", h.Branch.Update).
			DELETE("/:id", h.Branch.Delete)
		r.Register(g)
	}

	if h.Branchwise != nil {
		g := NewDomainGroup("branchwiseitem", "/branchwiseitem")
		g.POST("", h.Branchwise.Create).
			GET("", h.Branchwise.List).
			GET("/export", h.Branchwise.Export).
			GET("/:id", h.Branchwise.GetByID).
			PATCH("/:id", h.Branchwise.Update).
			DELETE("/:id", h.Branchwise.Delete)
		r.Register(g)
	}

	if h.Employee != nil {
		g := NewDomainGroup("employee", "/employee")
		g.POST("", h.Employee.Create).
			GET("", h.Employee.List).
			GET("/:id", h.Employee.GetByID).
			PATCH("/:id", h.Employee.Update).
			DELETE("/:id", h.Employee.Delete)
		r.Register(g)
	}

	if h.Warehouse != nil {
		g := NewDomainGroup("warehouse", "/warehouse")
		g.POST("", h.Warehouse.Create).
			GET("", h.Warehouse.List).
			GET("/:id", h.Warehouse.GetByID).
			PATCH("/:id", h.Warehouse.Update).
			DELETE("/:id", h.Warehouse.Delete)
		r.Register(g)

		items := NewDomainGroup("warehouseItems", "/warehouseItems")
		items.POST("", h.Warehouse.CreateItem).
			GET("", h.Warehouse.ListItems).
			GET("/:code", h.Warehouse.GetItem).
			PATCH("/:code", h.Warehouse.UpdateItem).
			PATCH("/:code/stock", h.Warehouse.AdjustStock).Describe("apply a signed stock delta").
			DELETE("/:code", h.Warehouse.DeleteItem)
		r.Register(items)
	}

	if h.Sequence != nil {
		g := NewDomainGroup("sequence", "/sequence")
		g.GET("/:prefix", h.Sequence.Current).
			POST("/:prefix/next", h.Sequence.Next).
			POST("/:prefix/reconcile", h.Sequence.Reconcile).
			POST("/:prefix/allocate", h.Sequence.Allocate)
		r.Register(g)
	}

	if h.Dispatch != nil {
		g := NewDomainGroup("dispatch", "/dispatch")
		g.POST("", h.Dispatch.Create).
			GET("", h.Dispatch.List).
			GET("/ws", h.Dispatch.Subscribe).Describe("dispatch notifications over websocket").
			GET("/number/:dispatchNo", h.Dispatch.GetByNumber).
			GET("/:id", h.Dispatch.GetByID).
			PATCH("/:id", h.Dispatch.Patch).Describe("receive or cancel a dispatch").
			PATCH("/:id/status", h.Dispatch.UpdateStatus).
			DELETE("/:id", h.Dispatch.Delete)
		r.Register(g)
	}

	if h.Transfer != nil {
		g := NewDomainGroup("itemtransfer", "/itemtransfer")
		g.POST("", h.Transfer.Create).
			GET("", h.Transfer.List).
			GET("/:id", h.Transfer.GetByID).
			PATCH("/:id", h.Transfer.Transition).
			DELETE("/:id", h.Transfer.Delete)
		r.Register(g)
	}

	if h.Production != nil {
		g := NewDomainGroup("productionEntry", "/productionEntry")
		g.POST("", h.Production.Create).
			POST("/saleorder", h.Production.CreateFromSaleOrder).
			GET("", h.Production.List).
			GET("/:id", h.Production.GetByID).
			PATCH("/:id/remove-item/:code", h.Production.RemoveItem).
			PATCH("/:id/deactivate", h.Production.Deactivate).
			PUT("/:id/quantities", h.Production.EditQuantities)
		r.Register(g)
	}

	if h.SaleOrder != nil {
		g := NewDomainGroup("salesorder", "/salesorder")
		g.POST("", h.SaleOrder.Create).
			GET("", h.SaleOrder.List).
			GET("/number/:saleOrderNo", h.SaleOrder.GetByNumber).
			GET("/:id", h.SaleOrder.GetByID).
			PATCH("/:id", h.SaleOrder.Patch).
			PATCH("/:id/approval", h.SaleOrder.PatchApproval).Describe("overwrite the latest approval").
			POST("/:id/approval", h.SaleOrder.AppendApproval).
			POST("/:id/invoice", h.SaleOrder.CreateInvoice).
			DELETE("/:id", h.SaleOrder.Delete)
		r.Register(g)
	}

	if h.HeldOrder != nil {
		g := NewDomainGroup("heldorder", "/heldorder")
		g.POST("", h.HeldOrder.Create).
			GET("", h.HeldOrder.List).
			GET("/:id", h.HeldOrder.GetByID).
			PATCH("/:id", h.HeldOrder.Patch).
			POST("/:id/convert", h.HeldOrder.Convert).Describe("convert a held order into a sale order").
			DELETE("/:id", h.HeldOrder.Delete)
		r.Register(g)
	}

	if h.Invoice != nil {
		g := NewDomainGroup("invoice", "/invoice")
		g.POST("", h.Invoice.Create).
			GET("", h.Invoice.List).
			GET("/:id", h.Invoice.GetByID)
		r.Register(g)
	}

	if h.Shift != nil {
		g := NewDomainGroup("shift", "/shift")
		g.POST("", h.Shift.Open).
			GET("", h.Shift.List).
			GET("/:id", h.Shift.GetByID).Describe("shift with recomputed system totals").
			PATCH("/close-shift/:id", h.Shift.Close).
			PATCH("/dayend/:branchName", h.Shift.DayEndBranch)
		r.Register(g)

		dayEnd := NewDomainGroup("dayend", "/dayend")
		dayEnd.POST("/dayend", h.Shift.CreateDayEnd).
			GET("", h.Shift.ListDayEnds)
		r.Register(dayEnd)

		validation := NewDomainGroup("dayendValidation", "/dayendValidation")
		validation.GET("/Validation", h.Shift.Validate).
			GET("", h.Shift.ListValidations)
		r.Register(validation)
	}

	return r
}
