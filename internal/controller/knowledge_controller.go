package controller

import (
	"mariia-hub-be/internal/dto"
	"mariia-hub-be/internal/pkg/serverutils"
	"mariia-hub-be/internal/service"
	"mariia-hub-be/pkg/rag"
	"mariia-hub-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IKnowledgeController interface {
	RegisterRoutes(r fiber.Router)
	AddDocuments(ctx *fiber.Ctx) error
	UpdateDocument(ctx *fiber.Ctx) error
	DeleteDocument(ctx *fiber.Ctx) error
	Statistics(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	Ask(ctx *fiber.Ctx) error
	Reindex(ctx *fiber.Ctx) error
}

type knowledgeController struct {
	knowledgeService service.IKnowledgeService
	engine           *rag.Engine
}

func NewKnowledgeController(knowledgeService service.IKnowledgeService, engine *rag.Engine) IKnowledgeController {
	return &knowledgeController{
		knowledgeService: knowledgeService,
		engine:           engine,
	}
}

func (c *knowledgeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/knowledge/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("statistics", c.Statistics)
	h.Post("search", c.Search)
	h.Post("ask", c.Ask)
	h.Post("reindex", c.Reindex)
	h.Post("", c.AddDocuments)
	h.Put(":id", c.UpdateDocument)
	h.Delete(":id", c.DeleteDocument)
}

func (c *knowledgeController) AddDocuments(ctx *fiber.Ctx) error {
	var req dto.AddDocumentsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	results, err := c.knowledgeService.AddDocuments(ctx.Context(), req.Documents)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success add documents", dto.AddDocumentsResponse{Results: results}))
}

func (c *knowledgeController) UpdateDocument(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid document id")
	}

	var req dto.UpdateDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.knowledgeService.UpdateDocument(ctx.Context(), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success update document", nil))
}

func (c *knowledgeController) DeleteDocument(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid document id")
	}

	if err := c.knowledgeService.DeleteDocument(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete document", nil))
}

func (c *knowledgeController) Statistics(ctx *fiber.Ctx) error {
	res, err := c.knowledgeService.GetStatistics(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get statistics", res))
}

func (c *knowledgeController) Search(ctx *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	results, err := c.engine.RetrieveDocuments(ctx.Context(), req.Query, toStoreFilters(req.Filters))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search knowledge", dto.SearchResponse{Results: results}))
}

func (c *knowledgeController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.engine.GenerateAnswer(ctx.Context(), req.Query, toAnswerOptions(req.Options))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate answer", res))
}

func (c *knowledgeController) Reindex(ctx *fiber.Ctx) error {
	scheduled, err := c.knowledgeService.ReindexAll(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success schedule reindex", dto.ReindexResponse{Scheduled: scheduled}))
}

func toStoreFilters(f *dto.FiltersDTO) store.Filters {
	if f == nil {
		return store.Filters{}
	}
	filters := store.Filters{
		Category: f.Category,
		Source:   f.Source,
		Tags:     f.Tags,
	}
	if f.DateRange != nil {
		filters.DateRange = &store.DateRange{
			Start: f.DateRange.Start,
			End:   f.DateRange.End,
		}
	}
	return filters
}

func toAnswerOptions(o *dto.AnswerOptionsDTO) *rag.AnswerOptions {
	if o == nil {
		return nil
	}
	return &rag.AnswerOptions{
		Context:             o.Context,
		ConversationHistory: o.ConversationHistory,
		Temperature:         o.Temperature,
		MaxLength:           o.MaxLength,
		Style:               o.Style,
	}
}
