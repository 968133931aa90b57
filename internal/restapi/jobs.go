package restapi

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/betterpage/betterpage/internal/domain"
	"github.com/betterpage/betterpage/internal/store"
	"github.com/betterpage/betterpage/internal/webserver"
)

type jobPayload struct {
	Name        *string      `json:"name"`
	PublishedAt *domain.Date `json:"publication_date"`
	Description *string      `json:"description"`
}

func (p *jobPayload) validate(full bool) error {
	if full && (p.Name == nil || p.PublishedAt == nil || p.Description == nil) {
		return store.Validationf("name, publication_date and description are required")
	}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return store.Validationf("name must not be empty")
		}
		if utf8.RuneCountInString(name) > 200 {
			return store.Validationf("name must not exceed 200 characters")
		}
		*p.Name = name
	}
	return nil
}

func (p *jobPayload) apply(rec *domain.JobPosting) {
	if p.Name != nil {
		rec.Name = *p.Name
	}
	if p.PublishedAt != nil {
		rec.PublishedAt = *p.PublishedAt
	}
	if p.Description != nil {
		rec.Description = *p.Description
	}
}

// registerJobRoutes registers job posting CRUD endpoints
func registerJobRoutes(srv *webserver.WebServer) {
	srv.ApiGET("/trabajos/", listJobs)
	srv.ApiPOST("/trabajos/", createJob)
	srv.ApiGET("/trabajos/:id/", getJob)
	srv.ApiPUT("/trabajos/:id/", replaceJob)
	srv.ApiPATCH("/trabajos/:id/", patchJob)
	srv.ApiDELETE("/trabajos/:id/", deleteJob)
}

func listJobs(c echo.Context) error {
	rows, err := webserver.GetStore(c).ListJobPostings(c.Request().Context())
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, rows)
}

func getJob(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid job ID")
	}
	rec, err := webserver.GetStore(c).GetJobPosting(c.Request().Context(), id)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, rec)
}

func createJob(c echo.Context) error {
	var payload jobPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse job posting")
	}
	if err := payload.validate(true); err != nil {
		return failErr(c, err)
	}

	var rec domain.JobPosting
	payload.apply(&rec)
	if err := webserver.GetStore(c).CreateJobPosting(c.Request().Context(), &rec); err != nil {
		return failErr(c, err)
	}
	audit(c, "create_job", mutationDesc("job posting", rec.ID))
	return created(c, rec)
}

func replaceJob(c echo.Context) error {
	return saveJob(c, true)
}

func patchJob(c echo.Context) error {
	return saveJob(c, false)
}

func saveJob(c echo.Context, full bool) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid job ID")
	}
	gw := webserver.GetStore(c)
	rec, err := gw.GetJobPosting(c.Request().Context(), id)
	if err != nil {
		return failErr(c, err)
	}

	var payload jobPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse job posting")
	}
	if err := payload.validate(full); err != nil {
		return failErr(c, err)
	}

	payload.apply(rec)
	if err := gw.UpdateJobPosting(c.Request().Context(), rec); err != nil {
		return failErr(c, err)
	}
	audit(c, "update_job", mutationDesc("job posting", rec.ID))
	return ok(c, rec)
}

func deleteJob(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid job ID")
	}
	if err := webserver.GetStore(c).DeleteJobPosting(c.Request().Context(), id); err != nil {
		return failErr(c, err)
	}
	audit(c, "delete_job", mutationDesc("job posting", id))
	return c.NoContent(http.StatusNoContent)
}
