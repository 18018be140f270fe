// Package web provides HTTP handlers and REST API endpoints for project management.
package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/dataloom/dataloom/pkg/engine"
	"github.com/dataloom/dataloom/pkg/eventbus"
	"github.com/dataloom/dataloom/pkg/models"
	"github.com/dataloom/dataloom/pkg/persistence"
	"github.com/dataloom/dataloom/pkg/registry"
	"github.com/dataloom/dataloom/pkg/workflow"
)

type APIHandlers struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	registry    *registry.Registry
	validator   *validator.Validate
	bus         eventbus.EventPublisher
	pool        *engine.Pool
}

func NewAPIHandlers(
	logger *slog.Logger,
	store persistence.Persistence,
	reg *registry.Registry,
	validator *validator.Validate,
	bus eventbus.EventPublisher,
	pool *engine.Pool,
) *APIHandlers {
	return &APIHandlers{
		logger:      logger,
		persistence: store,
		registry:    reg,
		validator:   validator,
		bus:         bus,
		pool:        pool,
	}
}

func (h *APIHandlers) GetProjects(c fiber.Ctx) error {
	projects, err := h.persistence.Projects(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"projects":    projects,
		"total_count": len(projects),
	})
}

func (h *APIHandlers) GetProject(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Project ID is required")
	}

	project, err := h.persistence.ProjectByID(c.Context(), id)
	if err != nil {
		if persistence.IsProjectNotFound(err) {
			return notFound(c, "Project not found")
		}

		return internalError(c, err)
	}

	return c.JSON(project)
}

func (h *APIHandlers) CreateProject(c fiber.Ctx) error {
	var req CreateProjectRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	project := &models.Project{
		ID:       uuid.New().String(),
		Name:     req.Name,
		Revision: req.Revision,
	}

	if err := h.persistence.SaveProject(c.Context(), project); err != nil {
		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(project)
}

func (h *APIHandlers) UpdateProject(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Project ID is required")
	}

	var req UpdateProjectRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	existing, err := h.persistence.ProjectByID(c.Context(), id)
	if err != nil {
		if persistence.IsProjectNotFound(err) {
			return notFound(c, "Project not found")
		}

		return internalError(c, err)
	}

	existing.Name = req.Name
	existing.Schema = req.Schema

	if req.Revision != "" {
		existing.Revision = req.Revision
	}

	if err := h.persistence.SaveProject(c.Context(), existing); err != nil {
		return internalError(c, err)
	}

	return c.JSON(existing)
}

func (h *APIHandlers) DeleteProject(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Project ID is required")
	}

	if err := h.persistence.DeleteProject(c.Context(), id); err != nil {
		if persistence.IsProjectNotFound(err) {
			return notFound(c, "Project not found")
		}

		return internalError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ExecuteProject runs a stored project graph and persists the updated schema.
// The response body is the exported schema with per-node status, so a client
// can render failures without a second fetch.
func (h *APIHandlers) ExecuteProject(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Project ID is required")
	}

	var req ExecuteProjectRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return badRequest(c, "Invalid JSON format")
		}

		if err := h.validator.Struct(req); err != nil {
			return badRequest(c, err.Error())
		}
	}

	project, err := h.persistence.ProjectByID(c.Context(), id)
	if err != nil {
		if persistence.IsProjectNotFound(err) {
			return notFound(c, "Project not found")
		}

		return internalError(c, err)
	}

	var user *models.User
	if req.User != nil {
		user = &models.User{ID: req.User.ID, Name: req.User.Name, Email: req.User.Email}
	}

	wf := workflow.New(h.registry,
		workflow.WithLogger(h.logger),
		workflow.WithEventBus(h.bus),
		workflow.WithPool(h.pool),
	)

	updated, err := wf.ImportAndExecute(c.Context(), project, req.NodeID, req.Sample, user)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.persistence.SaveProject(c.Context(), updated); err != nil {
		return internalError(c, err)
	}

	return c.JSON(updated)
}

// GetNodeTypes lists the registered node type catalog.
func (h *APIHandlers) GetNodeTypes(c fiber.Ctx) error {
	types := h.registry.KnownTypes()
	response := make([]NodeTypeResponse, 0, len(types))

	for _, id := range types {
		factory, ok := h.registry.Factory(id)
		if !ok {
			continue
		}

		response = append(response, NodeTypeResponse{
			ID:          factory.ID(),
			Name:        factory.Name(),
			Description: factory.Description(),
			Schema:      factory.Schema(),
		})
	}

	return c.JSON(response)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	status := "healthy"
	message := "Dataloom API is healthy"
	httpStatus := http.StatusOK

	if err := h.persistence.HealthCheck(c.Context()); err != nil {
		status = "unhealthy"
		message = err.Error()
		httpStatus = http.StatusInternalServerError
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":    status,
		"message":   message,
		"timestamp": time.Now().UTC(),
	})
}
