package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"bookmanager/internal/domains/book/model"
	"bookmanager/internal/domains/book/service"
	"bookmanager/internal/domains/book/view"
	"bookmanager/internal/domains/notification"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PageHandler serves the server rendered book management page. All UI
// state travels in the query string so every screen is a plain GET.
type PageHandler struct {
	service service.ServiceInterface
	guard   *service.SubmitGuard
	appName string
}

func NewPageHandler(service service.ServiceInterface, guard *service.SubmitGuard, appName string) *PageHandler {
	return &PageHandler{
		service: service,
		guard:   guard,
		appName: appName,
	}
}

func (h *PageHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.Index)
	r.GET("/books/table", h.Table)
	r.GET("/books/export", h.Export)
	r.POST("/books", h.Create)
	r.POST("/books/:id", h.Update)
	r.POST("/books/:id/delete", h.Delete)
}

// bookForm mirrors the modal fields. The year stays a string so a
// non-numeric value reaches validation instead of failing the bind.
type bookForm struct {
	Title         string `form:"title"`
	Author        string `form:"author"`
	Genre         string `form:"genre"`
	PublishedYear string `form:"publishedYear"`
	Status        string `form:"status"`
	Token         string `form:"token"`
}

func (f bookForm) input() model.BookInput {
	year, err := strconv.Atoi(strings.TrimSpace(f.PublishedYear))
	if err != nil {
		year = 0
	}
	in := model.BookInput{
		Title:         f.Title,
		Author:        f.Author,
		Genre:         f.Genre,
		PublishedYear: year,
		Status:        model.Status(f.Status),
	}
	in.Normalize()
	return in
}

func toasts(ctx context.Context) []notification.Toast {
	if col := notification.CollectorFrom(ctx); col != nil {
		return col.Toasts()
	}
	return nil
}

// page assembles the index view. A warm cache renders the table inline,
// a cold one renders the skeleton that fetches /books/table.
func (h *PageHandler) page(ctx context.Context, state view.PageState) (view.IndexView, view.PageState) {
	table := view.LoadingTable(state)
	if books, ok := h.service.PeekBooks(ctx); ok {
		table, state = view.NewTable(books, state)
	}
	return view.NewIndex(h.appName, state, table), state
}

// Index - GET /
func (h *PageHandler) Index(c *gin.Context) {
	ctx := c.Request.Context()
	state := view.ParseState(c.Request.URL.Query())
	flashed := notification.PopFlash(c)

	page, state := h.page(ctx, state)

	switch state.Modal {
	case view.ModalCreate:
		page.Form = view.NewCreateForm(state, model.NewBookInput(), nil, service.NewFormToken())
	case view.ModalEdit:
		book, err := h.service.GetBook(ctx, state.EditID)
		if err != nil {
			h.failToLoad(ctx, err)
			break
		}
		page.Form = view.NewEditForm(state, book.ID, book.Input(), nil, service.NewFormToken())
	}

	if state.Confirm != "" {
		book, err := h.service.GetBook(ctx, state.Confirm)
		if err != nil {
			h.failToLoad(ctx, err)
		} else {
			page.Confirm = view.NewConfirm(state, *book)
		}
	}

	page.Toasts = append(flashed, toasts(ctx)...)
	c.HTML(http.StatusOK, view.IndexTemplate, page)
}

func (h *PageHandler) failToLoad(ctx context.Context, err error) {
	log.Ctx(ctx).Warn().Err(err).Msg("book for dialog unavailable")
	if col := notification.CollectorFrom(ctx); col != nil {
		col.Add(notification.Failure(model.MessageFor(err)))
	}
}

// Table - GET /books/table
// Renders the listing fragment, fetching the catalog if needed.
func (h *PageHandler) Table(c *gin.Context) {
	ctx := c.Request.Context()
	state := view.ParseState(c.Request.URL.Query())

	books, err := h.service.ListBooks(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to load books")
		c.HTML(http.StatusBadGateway, view.TableErrorTemplate, view.NewErrorView(h.appName))
		return
	}

	table, _ := view.NewTable(books, state)
	c.HTML(http.StatusOK, view.TableTemplate, table)
}

// Create - POST /books
func (h *PageHandler) Create(c *gin.Context) {
	state := view.ParseState(c.Request.URL.Query()).Listing()

	h.submit(c, state.OpenCreate(), func(ctx context.Context, in model.BookInput) error {
		_, err := h.service.CreateBook(ctx, in)
		return err
	}, func(in model.BookInput, verr *model.ValidationError, token string) *view.FormView {
		return view.NewCreateForm(state, in, verr, token)
	})
}

// Update - POST /books/:id
func (h *PageHandler) Update(c *gin.Context) {
	id := c.Param("id")
	state := view.ParseState(c.Request.URL.Query()).Listing()

	h.submit(c, state.OpenEdit(id), func(ctx context.Context, in model.BookInput) error {
		_, err := h.service.UpdateBook(ctx, id, in)
		return err
	}, func(in model.BookInput, verr *model.ValidationError, token string) *view.FormView {
		return view.NewEditForm(state, id, in, verr, token)
	})
}

// submit runs the shared create/edit flow: validate, guard against a
// double submit, call the service, then redirect or re-open the modal.
func (h *PageHandler) submit(
	c *gin.Context,
	open view.PageState,
	save func(context.Context, model.BookInput) error,
	form func(model.BookInput, *model.ValidationError, string) *view.FormView,
) {
	ctx := c.Request.Context()

	var f bookForm
	if err := c.ShouldBind(&f); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("unreadable book form")
	}
	in := f.input()

	// A re-opened form needs a usable token even when the posted one was not.
	token := f.Token
	if !service.IsFormToken(token) {
		token = service.NewFormToken()
	}

	if err := in.Validate(); err != nil {
		var verr *model.ValidationError
		errors.As(err, &verr)
		h.renderForm(c, http.StatusUnprocessableEntity, open, form(in, verr, token))
		return
	}

	release, err := h.guard.Acquire(f.Token)
	if err != nil {
		if col := notification.CollectorFrom(ctx); col != nil {
			col.Add(notification.Failure(model.MessageFor(err)))
		}
		h.renderForm(c, model.StatusFor(err), open, form(in, nil, token))
		return
	}
	defer release()

	if err := save(ctx, in); err != nil {
		h.renderForm(c, model.StatusFor(err), open, form(in, nil, token))
		return
	}

	notification.SetFlash(c, toasts(ctx))
	c.Redirect(http.StatusSeeOther, open.Listing().URL("/"))
}

func (h *PageHandler) renderForm(c *gin.Context, status int, state view.PageState, form *view.FormView) {
	ctx := c.Request.Context()
	page, _ := h.page(ctx, state)
	page.Form = form
	page.Toasts = toasts(ctx)
	c.HTML(status, view.IndexTemplate, page)
}

// Delete - POST /books/:id/delete
// The outcome is reported through a flashed toast either way.
func (h *PageHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	state := view.ParseState(c.Request.URL.Query()).Listing()

	if err := h.service.DeleteBook(ctx, c.Param("id")); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("book_id", c.Param("id")).Msg("delete failed")
	}

	notification.SetFlash(c, toasts(ctx))
	c.Redirect(http.StatusSeeOther, state.URL("/"))
}

// Export - GET /books/export
// Streams the filtered catalog as an xlsx workbook.
func (h *PageHandler) Export(c *gin.Context) {
	ctx := c.Request.Context()
	state := view.ParseState(c.Request.URL.Query())

	f, err := h.service.ExportBooks(ctx, state.Criteria())
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("export failed")
		c.HTML(http.StatusBadGateway, view.ErrorTemplate, view.NewErrorView(h.appName))
		return
	}
	defer f.Close()

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", `attachment; filename="books.xlsx"`)
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to write export")
	}
}
