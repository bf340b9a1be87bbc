package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/auth"
	"github.com/trezcool/academia/core/course"
)

type courseApi struct {
	svc *course.Service
}

func registerCourseAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *course.Service) {
	api := courseApi{svc: svc}

	cg := g.Group("/courses", jwt)

	// reads are open to any authenticated session
	cg.GET("", api.query, anyRole())
	cg.GET("/:id", api.retrieve, anyRole())

	// writes are admin-only
	admin := requireRole(auth.RoleAdmin)
	cg.POST("", api.create, admin)
	cg.PUT("/:id", api.update, admin)
	cg.DELETE("/:id", api.destroy, admin)
	cg.POST("/reorder", api.reorder, admin)
	cg.POST("/:id/enroll", api.enroll, admin)
	cg.POST("/:id/unenroll", api.unenroll, admin)
}

// Handlers

func (api *courseApi) query(ctx echo.Context) error {
	courses, err := api.svc.GetAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	if courses == nil {
		courses = []course.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return errHttpNotFound
	}
	c, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding course by ID")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *courseApi) create(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	c, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *courseApi) update(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return errHttpNotFound
	}

	var data course.UpdateCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCourse")
	}

	c, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating course")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *courseApi) destroy(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return errHttpNotFound
	}
	if err = api.svc.Remove(ctx.Request().Context(), id); err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting course")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *courseApi) reorder(ctx echo.Context) error {
	var data ReorderRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReorderRequest")
	}

	if err := api.svc.Reorder(ctx.Request().Context(), data.FromIndex, data.ToIndex); err != nil {
		return errors.Wrap(err, "reordering courses")
	}

	courses, err := api.svc.GetAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) enroll(ctx echo.Context) error {
	return api.changeEnrollment(ctx, api.svc.Enroll)
}

func (api *courseApi) unenroll(ctx echo.Context) error {
	return api.changeEnrollment(ctx, api.svc.Unenroll)
}

func (api *courseApi) changeEnrollment(
	ctx echo.Context,
	op func(ctx context.Context, courseID, studentID int64) (course.Course, error),
) error {
	id, err := pathID(ctx)
	if err != nil {
		return errHttpNotFound
	}

	var data EnrollmentRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EnrollmentRequest")
	}
	if err := core.Validate.Struct(&data); err != nil {
		return err
	}

	c, err := op(ctx.Request().Context(), id, data.StudentID)
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "changing enrollment")
	}
	return ctx.JSON(http.StatusOK, c)
}

type (
	ReorderRequest struct {
		FromIndex int `json:"from_index"`
		ToIndex   int `json:"to_index"`
	}

	EnrollmentRequest struct {
		StudentID int64 `json:"student_id" validate:"required"`
	}
)
