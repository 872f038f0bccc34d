package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cinememory/backend/internal/services"
)

type MoviesHandler struct {
	catalog *services.MovieCatalog
}

func NewMoviesHandler(catalog *services.MovieCatalog) *MoviesHandler {
	return &MoviesHandler{catalog: catalog}
}

func (h *MoviesHandler) ByGenre(c *gin.Context) {
	input := services.MovieBrowseInput{
		Genre:  c.Query("genre"),
		SortBy: c.DefaultQuery("sort", "title"),
	}
	if year := c.Query("year"); year != "" {
		n, err := strconv.Atoi(year)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
		input.Year = n
	}
	if limit := c.Query("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		input.Limit = n
	}
	if offset := c.Query("offset"); offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
			return
		}
		input.Offset = n
	}

	result, err := h.catalog.Browse(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
