// README: Activity feed handlers for posts, kudos, and comments.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"peloton/internal/modules/activity"
	"peloton/internal/types"
)

type ActivityHandler struct {
	activity *activity.Service
}

func NewActivityHandler(svc *activity.Service) *ActivityHandler {
	return &ActivityHandler{activity: svc}
}

func (h *ActivityHandler) Feed(c *gin.Context) {
	posts, err := h.activity.Feed(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if posts == nil {
		posts = []*activity.Post{}
	}
	writeJSON(c, http.StatusOK, posts)
}

type createPostReq struct {
	RideID   *types.ID `json:"rideId"`
	Content  *string   `json:"content"`
	ImageURL *string   `json:"imageUrl"`
}

func (h *ActivityHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req createPostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	p, err := h.activity.CreatePost(c.Request.Context(), activity.PostCommand{
		UserID:   userID,
		RideID:   req.RideID,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, p)
}

func (h *ActivityHandler) ToggleKudos(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	postID := c.Param("postId")
	if postID == "" {
		writeError(c, http.StatusBadRequest, "missing post id")
		return
	}
	on, err := h.activity.ToggleKudos(c.Request.Context(), types.ID(postID), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"kudos": on})
}

type addCommentReq struct {
	Content string `json:"content"`
}

func (h *ActivityHandler) AddComment(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	postID := c.Param("postId")
	if postID == "" {
		writeError(c, http.StatusBadRequest, "missing post id")
		return
	}
	var req addCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	comment, err := h.activity.AddComment(c.Request.Context(), types.ID(postID), userID, req.Content)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, comment)
}

func (h *ActivityHandler) ListComments(c *gin.Context) {
	postID := c.Param("postId")
	if postID == "" {
		writeError(c, http.StatusBadRequest, "missing post id")
		return
	}
	comments, err := h.activity.ListComments(c.Request.Context(), types.ID(postID))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if comments == nil {
		comments = []*activity.Comment{}
	}
	writeJSON(c, http.StatusOK, comments)
}
