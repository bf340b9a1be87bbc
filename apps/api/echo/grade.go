package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/academia/core/auth"
	"github.com/trezcool/academia/core/grade"
)

type gradeApi struct {
	svc *grade.Service
}

func registerGradeAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *grade.Service) {
	api := gradeApi{svc: svc}

	gg := g.Group("/grades", jwt)

	// reads are open to any authenticated session
	gg.GET("", api.query, anyRole())
	gg.GET("/enriched", api.queryEnriched, anyRole())
	gg.GET("/averages/students/:id", api.studentAverage, anyRole())
	gg.GET("/averages/courses/:id", api.courseAverage, anyRole())
	gg.GET("/:id", api.retrieve, anyRole())

	// writes are admin-only
	admin := requireRole(auth.RoleAdmin)
	gg.POST("", api.create, admin)
	gg.PUT("/:id", api.update, admin)
	gg.DELETE("/:id", api.destroy, admin)
}

// Handlers

func (api *gradeApi) query(ctx echo.Context) error {
	grades, err := api.svc.GetAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying grades")
	}
	if grades == nil {
		grades = []grade.Grade{}
	}
	return ctx.JSON(http.StatusOK, grades)
}

func (api *gradeApi) queryEnriched(ctx echo.Context) error {
	grades, err := api.svc.Enriched(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying enriched grades")
	}
	if grades == nil {
		grades = []grade.EnrichedGrade{}
	}
	return ctx.JSON(http.StatusOK, grades)
}

func (api *gradeApi) studentAverage(ctx echo.Context) error {
	return api.average(ctx, api.svc.AvgByStudent)
}

func (api *gradeApi) courseAverage(ctx echo.Context) error {
	return api.average(ctx, api.svc.AvgByCourse)
}

func (api *gradeApi) average(ctx echo.Context, avg func(id int64) (null.Float64, error)) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return errHttpNotFound
	}
	val, err := avg(id)
	if err != nil {
		return errors.Wrap(err, "computing average")
	}
	return ctx.JSON(http.StatusOK, AverageResponse{Average: val})
}

func (api *gradeApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return errHttpNotFound
	}
	gr, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == grade.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding grade by ID")
	}
	return ctx.JSON(http.StatusOK, gr)
}

func (api *gradeApi) create(ctx echo.Context) error {
	var data grade.NewGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGrade")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	gr, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating grade")
	}
	return ctx.JSON(http.StatusCreated, gr)
}

func (api *gradeApi) update(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return errHttpNotFound
	}

	var data grade.UpdateGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateGrade")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	gr, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		if errors.Cause(err) == grade.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating grade")
	}
	return ctx.JSON(http.StatusOK, gr)
}

func (api *gradeApi) destroy(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return errHttpNotFound
	}
	if err = api.svc.Remove(ctx.Request().Context(), id); err != nil {
		if errors.Cause(err) == grade.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting grade")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type AverageResponse struct {
	Average null.Float64 `json:"average"`
}
