package handlers

import (
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"unimaterials/internal/models"
	"unimaterials/internal/services"
)

type MaterialHandler struct {
	service services.MaterialService
}

func NewMaterialHandler(service services.MaterialService) *MaterialHandler {
	return &MaterialHandler{service: service}
}

// @Summary      List materials
// @Tags         Materials
// @Produce      json
// @Router       /materials [get]
func (h *MaterialHandler) List(c *gin.Context) {
	// approved materials only, unless the query asks for the
	// unapproved review queue
	approved := c.Query("approved") != "false"
	filter := models.MaterialFilter{
		Level:      c.Query("level"),
		CourseCode: c.Query("course-code"),
		Approved:   &approved,
	}

	materials, err := h.service.List(filter)
	if err != nil {
		log.Printf("[materials][list] error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching materials"})
		return
	}
	if materials == nil {
		materials = []*models.Material{}
	}
	c.JSON(http.StatusOK, materials)
}

// @Summary      Get one material
// @Tags         Materials
// @Produce      json
// @Router       /materials/{id} [get]
func (h *MaterialHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}

	m, err := h.service.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrMaterialNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Material not found"})
			return
		}
		log.Printf("[materials][get] error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching material"})
		return
	}
	c.JSON(http.StatusOK, m)
}

// @Summary      Upload a material (PDF)
// @Tags         Materials
// @Accept       multipart/form-data
// @Produce      json
// @Router       /materials [post]
func (h *MaterialHandler) Create(c *gin.Context) {
	file, header, ok := formFile(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please upload a PDF file"})
		return
	}
	defer file.Close()

	in := services.MaterialInput{
		Level:       c.PostForm("level"),
		CourseCode:  c.PostForm("courseCode"),
		CourseTitle: c.PostForm("courseTitle"),
		Description: c.PostForm("description"),
	}

	m, err := h.service.Create(in, header.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFileRequired):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Please upload a PDF file"})
		case errors.Is(err, services.ErrFieldsRequired):
			c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required"})
		default:
			log.Printf("[materials][create] error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error creating material"})
		}
		return
	}
	c.JSON(http.StatusCreated, m)
}

// @Summary      Update a material, optionally replacing its PDF
// @Tags         Materials
// @Accept       multipart/form-data
// @Produce      json
// @Router       /materials/{id} [put]
func (h *MaterialHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}

	in := services.MaterialInput{
		Level:       c.PostForm("level"),
		CourseCode:  c.PostForm("courseCode"),
		CourseTitle: c.PostForm("courseTitle"),
		Description: c.PostForm("description"),
	}
	if v, present := c.GetPostForm("approved"); present {
		approved := v == "true"
		in.Approved = &approved
	}

	var reader io.Reader
	filename := ""
	if file, header, ok := formFile(c); ok {
		defer file.Close()
		reader = file
		filename = header.Filename
	}

	m, err := h.service.Update(id, in, filename, reader)
	if err != nil {
		if errors.Is(err, services.ErrMaterialNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Material not found"})
			return
		}
		log.Printf("[materials][update] error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating material"})
		return
	}
	c.JSON(http.StatusOK, m)
}

// @Summary      Toggle approval (admin)
// @Tags         Materials
// @Produce      json
// @Router       /materials/{id}/approve [patch]
func (h *MaterialHandler) ToggleApproval(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}

	m, err := h.service.ToggleApproval(id)
	if err != nil {
		if errors.Is(err, services.ErrMaterialNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Material not found"})
			return
		}
		log.Printf("[materials][approve] error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error toggling approval"})
		return
	}
	c.JSON(http.StatusOK, m)
}

// @Summary      Delete a material and its PDF
// @Tags         Materials
// @Produce      json
// @Router       /materials/{id} [delete]
func (h *MaterialHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}

	if err := h.service.Delete(id); err != nil {
		if errors.Is(err, services.ErrMaterialNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Material not found"})
			return
		}
		log.Printf("[materials][delete] error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error deleting material"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Material deleted successfully"})
}

// formFile pulls the uploaded PDF out of the multipart form. The field
// is named "material", matching the upload widget.
func formFile(c *gin.Context) (multipart.File, *multipart.FileHeader, bool) {
	header, err := c.FormFile("material")
	if err != nil {
		return nil, nil, false
	}
	f, err := header.Open()
	if err != nil {
		return nil, nil, false
	}
	return f, header, true
}
