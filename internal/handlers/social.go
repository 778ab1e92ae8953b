package handlers

import (
	"net/http"

	"civicos/internal/middleware"
	"civicos/internal/services"

	"github.com/gin-gonic/gin"
)

type SocialHandler struct {
	social *services.SocialService
}

func NewSocialHandler(social *services.SocialService) *SocialHandler {
	return &SocialHandler{social: social}
}

func (h *SocialHandler) ListPosts(c *gin.Context) {
	sortBy := c.DefaultQuery("sort", services.SortNew)
	if sortBy != services.SortNew && sortBy != services.SortHot {
		badRequest(c, "sort must be new or hot")
		return
	}
	posts, err := h.social.ListPosts(c.Request.Context(), sortBy, middleware.CurrentUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *SocialHandler) GetPost(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	post, err := h.social.GetPost(c.Request.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

type contentRequest struct {
	Content  string `json:"content" binding:"required"`
	ParentID *uint  `json:"parentId"`
}

func (h *SocialHandler) CreatePost(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Content is required")
		return
	}
	post, err := h.social.CreatePost(c.Request.Context(), middleware.CurrentUserID(c), req.Content)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *SocialHandler) Like(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	res, err := h.social.Like(c.Request.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *SocialHandler) Unlike(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	res, err := h.social.Unlike(c.Request.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *SocialHandler) Comment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Content is required")
		return
	}
	comment, err := h.social.Comment(c.Request.Context(), services.CreateCommentInput{
		UserID:   middleware.CurrentUserID(c),
		PostID:   id,
		ParentID: req.ParentID,
		Content:  req.Content,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *SocialHandler) ListComments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	comments, err := h.social.ListComments(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

func (h *SocialHandler) DeletePost(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.social.DeletePost(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *SocialHandler) DeleteComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.social.DeleteComment(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
