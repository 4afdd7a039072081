package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// PackHandler hands the question-pack document back and forth. The pack is
// an opaque JSON blob to the server; clients cache it locally and only
// re-download after an upload.
type PackHandler struct {
	packPath string
}

func NewPackHandler(packPath string) *PackHandler {
	return &PackHandler{packPath: packPath}
}

// GetPack godoc
// @Summary      Download the question pack
// @Description  Serve the current question-pack JSON document
// @Tags         pack
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Failure      500 {object} ErrorResponse
// @Router       /api/pack [get]
func (h *PackHandler) GetPack(c *gin.Context) {
	data, err := os.ReadFile(h.packPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not read pack"})
		return
	}
	if !json.Valid(data) {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "invalid JSON in pack"})
		return
	}

	c.Data(http.StatusOK, "application/json", data)
}

// UploadPack godoc
// @Summary      Upload a question pack
// @Description  Replace the stored question-pack document with the uploaded file
// @Tags         pack
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Pack JSON file"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/pack [post]
func (h *PackHandler) UploadPack(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no file provided"})
		return
	}

	if ext := strings.ToLower(filepath.Ext(file.Filename)); ext != ".json" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unsupported file format"})
		return
	}
	if file.Size > 50<<20 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file too large (max 50MB)"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to read file"})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to read file"})
		return
	}
	if !json.Valid(data) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON in pack"})
		return
	}

	os.MkdirAll(filepath.Dir(h.packPath), 0755)
	if err := os.WriteFile(h.packPath, data, 0644); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to save file"})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "pack uploaded"})
}
