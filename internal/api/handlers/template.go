package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell/internal/models"
	"inkwell/internal/service"
)

// TemplateHandler 處理書籍範本的 CRUD
type TemplateHandler struct {
	templateService *service.TemplateService
}

func NewTemplateHandler(templateService *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

type templateInput struct {
	Name       string                   `json:"name" binding:"required,max=100"`
	Genre      string                   `json:"genre" binding:"required"`
	Structure  []models.TemplateChapter `json:"structure"`
	Layout     *models.PageLayout       `json:"layout"`
	CoverStyle string                   `json:"cover_style"`
	Public     bool                     `json:"public"`
}

func (h *TemplateHandler) Create(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	var input templateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tpl, err := h.templateService.Create(c.Request.Context(), userID, service.TemplateInput{
		Name:       input.Name,
		Genre:      input.Genre,
		Structure:  input.Structure,
		Layout:     input.Layout,
		CoverStyle: input.CoverStyle,
		Public:     input.Public,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tpl)
}

func (h *TemplateHandler) List(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	templates, err := h.templateService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, templates)
}

func (h *TemplateHandler) Get(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	templateID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	tpl, err := h.templateService.Get(c.Request.Context(), templateID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tpl)
}

func (h *TemplateHandler) Update(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}
	templateID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var input templateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tpl, err := h.templateService.Update(c.Request.Context(), templateID, userID, role, service.TemplateInput{
		Name:       input.Name,
		Genre:      input.Genre,
		Structure:  input.Structure,
		Layout:     input.Layout,
		CoverStyle: input.CoverStyle,
		Public:     input.Public,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tpl)
}

func (h *TemplateHandler) Delete(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}
	templateID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.templateService.Delete(c.Request.Context(), templateID, userID, role); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "範本已刪除"})
}
