package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/roadready/roadready/internal/progress"
	"github.com/roadready/roadready/internal/scoring"
	"github.com/roadready/roadready/internal/store"
)

type handlers struct {
	progress Progress
}

type createStudentRequest struct {
	Name string `json:"name" validate:"required,notblank,max=100"`
}

type rateRequest struct {
	Score *int   `json:"score" validate:"required,min=0,max=5"`
	Note  string `json:"note" validate:"max=500"`
}

type listQuery struct {
	Limit int `query:"limit" json:"limit" validate:"min=0,max=1000"`
}

type eventsQuery struct {
	Limit  int   `json:"limit" validate:"min=0,max=1000"`
	After  int64 `json:"after" validate:"min=0"`
	Before int64 `json:"before" validate:"min=0"`
}

type rateResponse struct {
	Transition *progress.Transition `json:"transition"`
	Report     *progress.Report     `json:"report"`
}

func (h *handlers) levels(c echo.Context) error {
	return c.JSON(http.StatusOK, scoring.AllLevels())
}

func (h *handlers) catalog(c echo.Context) error {
	cat, err := h.progress.Catalog(c.Request().Context(), teacherID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *handlers) listStudents(c echo.Context) error {
	list, err := h.progress.Students(c.Request().Context(), teacherID(c))
	if err != nil {
		return err
	}
	if list == nil {
		list = []store.Student{}
	}
	return c.JSON(http.StatusOK, list)
}

func (h *handlers) createStudent(c echo.Context) error {
	req := new(createStudentRequest)
	if err := c.Bind(req); err != nil {
		return err
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	st, err := h.progress.AddStudent(c.Request().Context(), teacherID(c), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, st)
}

func (h *handlers) readiness(c echo.Context) error {
	rep, err := h.progress.Report(c.Request().Context(), teacherID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rep)
}

func (h *handlers) history(c echo.Context) error {
	limit, err := bindLimit(c)
	if err != nil {
		return err
	}
	snaps, err := h.progress.History(c.Request().Context(), teacherID(c), c.Param("id"), limit)
	if err != nil {
		return err
	}
	if snaps == nil {
		snaps = []store.Snapshot{}
	}
	return c.JSON(http.StatusOK, snaps)
}

func (h *handlers) events(c echo.Context) error {
	q := eventsQuery{}
	err := echo.QueryParamsBinder(c).
		Int("limit", &q.Limit).
		Int64("after", &q.After).
		Int64("before", &q.Before).
		BindError()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "limit, after and before must be integers")
	}
	if err := c.Validate(q); err != nil {
		return err
	}
	opts := store.QueryOpts{Limit: q.Limit, After: q.After, Before: q.Before}
	events, err := h.progress.ScoreEvents(c.Request().Context(), teacherID(c), c.Param("id"), opts)
	if err != nil {
		return err
	}
	if events == nil {
		events = []store.ScoreEvent{}
	}
	return c.JSON(http.StatusOK, events)
}

func (h *handlers) rateSkill(c echo.Context) error {
	req := new(rateRequest)
	if err := c.Bind(req); err != nil {
		return err
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	tid, sid := teacherID(c), c.Param("id")
	tr, err := h.progress.RateSkill(ctx, progress.RateInput{
		TeacherID: tid,
		StudentID: sid,
		SkillID:   c.Param("skill"),
		Score:     *req.Score,
		Note:      req.Note,
	})
	if err != nil {
		return err
	}
	rep, err := h.progress.Report(ctx, tid, sid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rateResponse{Transition: tr, Report: rep})
}

func bindLimit(c echo.Context) (int, error) {
	q := listQuery{}
	if err := echo.QueryParamsBinder(c).Int("limit", &q.Limit).BindError(); err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
	}
	if err := c.Validate(q); err != nil {
		return 0, err
	}
	return q.Limit, nil
}
