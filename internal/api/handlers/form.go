package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"cell-monitor/internal/api/middleware"
	"cell-monitor/internal/model"
	"cell-monitor/internal/registry"
	"cell-monitor/internal/session"
)

// FormHandler serves the interactive HTML form
type FormHandler struct {
	store    *session.Store
	maxCells int
}

// NewFormHandler creates a new form handler
func NewFormHandler(store *session.Store, maxCells int) *FormHandler {
	return &FormHandler{store: store, maxCells: maxCells}
}

type chemistrySlot struct {
	Index    int
	Selected string
}

type cellCard struct {
	registry.Row
	StatusClass string
}

type formPage struct {
	MaxCells int
	Count    int
	Options  []string
	Slots    []chemistrySlot
	Cells    []cellCard
	Summary  registry.Summary
	Raw      []string
	Header   []string
	FileName string
	Flashes  []string
}

var statusClasses = map[model.Status]string{
	model.StatusGood:     "status-good",
	model.StatusWarning:  "status-warning",
	model.StatusCritical: "status-danger",
}

// Index handles GET /
func (h *FormHandler) Index(c *gin.Context) {
	page := formPage{
		MaxCells: h.maxCells,
		Header:   registry.CSVHeader,
		FileName: registry.DefaultCSVFileName,
		Flashes:  takeFlashes(c),
	}
	for _, ch := range model.Chemistries() {
		page.Options = append(page.Options, ch.String())
	}

	_ = h.store.With(middleware.SessionID(c), func(r *registry.Registry) error {
		page.Count = r.Count()
		staged := r.Staged()
		for i := 0; i < r.Count(); i++ {
			slot := chemistrySlot{Index: i, Selected: page.Options[0]}
			if i < len(staged) {
				slot.Selected = staged[i]
			}
			page.Slots = append(page.Slots, slot)
		}
		for row := range r.Rows() {
			page.Cells = append(page.Cells, cellCard{Row: row, StatusClass: statusClasses[row.Status]})
			page.Raw = append(page.Raw, registry.FormatRow(row))
		}
		page.Summary, _ = r.Summary()
		return nil
	})

	c.HTML(http.StatusOK, "index.html", page)
}

// Declare handles POST /cells/declare ("Initialize Cells")
func (h *FormHandler) Declare(c *gin.Context) {
	n, err := strconv.Atoi(c.PostForm("cell_no"))
	if err != nil || n < 1 || n > h.maxCells {
		addFlash(c, fmt.Sprintf("The number of cells must be between 1 and %d.", h.maxCells))
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	_ = h.store.With(middleware.SessionID(c), func(r *registry.Registry) error {
		r.Declare(n)
		return nil
	})
	c.Redirect(http.StatusSeeOther, "/")
}

// Create handles POST /cells/create ("Create Cell Data")
func (h *FormHandler) Create(c *gin.Context) {
	err := h.store.With(middleware.SessionID(c), func(r *registry.Registry) error {
		labels := make([]string, r.Count())
		for i := range labels {
			v := c.PostForm(fmt.Sprintf("cell_type_%d", i))
			if !model.ParseChemistry(v).Known() {
				return fmt.Errorf("cell %d: choose lfp or nmc", i+1)
			}
			labels[i] = v
		}
		if err := r.SetChemistries(labels); err != nil {
			return err
		}
		r.Materialize()
		return nil
	})
	if err != nil {
		addFlash(c, err.Error())
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// Currents handles POST /cells/currents
func (h *FormHandler) Currents(c *gin.Context) {
	_ = h.store.With(middleware.SessionID(c), func(r *registry.Registry) error {
		for _, id := range r.IDs() {
			raw, ok := c.GetPostForm("current_" + id)
			if !ok {
				continue
			}
			if err := r.SetCurrentText(id, raw); err != nil {
				logrus.WithField("session", middleware.SessionID(c)).Warn(err)
				addFlash(c, fmt.Sprintf("Invalid input for %s. Setting current to 0.", id))
			}
		}
		return nil
	})
	c.Redirect(http.StatusSeeOther, "/")
}

// Reset handles POST /cells/reset ("Start Over")
func (h *FormHandler) Reset(c *gin.Context) {
	h.store.Delete(middleware.SessionID(c))
	c.Redirect(http.StatusSeeOther, "/")
}

func addFlash(c *gin.Context, msg string) {
	sess := sessions.Default(c)
	sess.AddFlash(msg)
	if err := sess.Save(); err != nil {
		logrus.WithError(err).Warn("failed to save flash message")
	}
}

func takeFlashes(c *gin.Context) []string {
	sess := sessions.Default(c)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(); err != nil {
		logrus.WithError(err).Warn("failed to clear flash messages")
	}
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
