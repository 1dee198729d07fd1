package api

import (
	"edunova/content"
	"edunova/models"
	"edunova/utils"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// DocumentsResponse wraps a document list.
type DocumentsResponse struct {
	Documents []models.Document `json:"documents"`
}

// VideosResponse wraps a video list.
type VideosResponse struct {
	Videos []models.Video `json:"videos"`
}

// GetDocumentsHandler lists documents matching the query filters.
// @Summary      List Documents
// @Description  All filters are optional and combined with AND. `search` is a case-insensitive substring match on title, description and subject.
// @Description  `subject`, `level` and `type` must match exactly. The fixture order is preserved.
// @Tags         Content
// @Produce      json
// @Param        search   query  string  false  "Substring of title, description or subject"
// @Param        subject  query  string  false  "Exact subject, e.g. Mathématiques"
// @Param        level    query  string  false  "Exact level, e.g. Licence 1"
// @Param        type     query  string  false  "Exact document type: cours, exercices, resume, examen"
// @Success      200  {object}  DocumentsResponse
// @Failure      503  {object}  utils.APIError "Content could not be loaded"
// @Router       /documents [get]
func GetDocumentsHandler(c *gin.Context, catalog *content.Catalog) {
	docs, err := catalog.Documents(c.Request.Context(), content.FilterFromValues(c.Request.URL.Query()))
	if err != nil {
		utils.GinFromError(c, err)
		return
	}
	c.JSON(http.StatusOK, DocumentsResponse{Documents: docs})
}

// GetDocumentByIDHandler returns a single document.
// @Summary      Get Document
// @Tags         Content
// @Produce      json
// @Param        id   path  int  true  "Document id"
// @Success      200  {object}  models.Document
// @Failure      400  {object}  utils.APIError "Id is not a number"
// @Failure      404  {object}  utils.APIError
// @Router       /documents/{id} [get]
func GetDocumentByIDHandler(c *gin.Context, catalog *content.Catalog) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	doc, err := catalog.Document(c.Request.Context(), id)
	if err != nil {
		utils.GinFromError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// GetVideosHandler lists videos matching the query filters. A `type` filter is ignored.
// @Summary      List Videos
// @Tags         Content
// @Produce      json
// @Param        search   query  string  false  "Substring of title, description or subject"
// @Param        subject  query  string  false  "Exact subject"
// @Param        level    query  string  false  "Exact level"
// @Success      200  {object}  VideosResponse
// @Failure      503  {object}  utils.APIError "Content could not be loaded"
// @Router       /videos [get]
func GetVideosHandler(c *gin.Context, catalog *content.Catalog) {
	videos, err := catalog.Videos(c.Request.Context(), content.FilterFromValues(c.Request.URL.Query()))
	if err != nil {
		utils.GinFromError(c, err)
		return
	}
	c.JSON(http.StatusOK, VideosResponse{Videos: videos})
}

// GetVideoByIDHandler returns a single video.
// @Summary      Get Video
// @Tags         Content
// @Produce      json
// @Param        id   path  int  true  "Video id"
// @Success      200  {object}  models.Video
// @Failure      400  {object}  utils.APIError "Id is not a number"
// @Failure      404  {object}  utils.APIError
// @Router       /videos/{id} [get]
func GetVideoByIDHandler(c *gin.Context, catalog *content.Catalog) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	video, err := catalog.Video(c.Request.Context(), id)
	if err != nil {
		utils.GinFromError(c, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		utils.GinBadRequest(c, "Invalid id: "+c.Param("id"))
		return 0, false
	}
	return id, true
}
