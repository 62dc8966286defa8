package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/sldmxm/yatube-final/config"
	"github.com/sldmxm/yatube-final/utils"
)

// PagesController serves flat informational pages whose content comes from
// configuration.
type PagesController struct{}

func NewPagesController() *PagesController { return &PagesController{} }

// AboutAuthor returns the "about the author" page context.
func (p *PagesController) AboutAuthor(ctx *gin.Context) {
	cfg := config.Get()
	utils.Success(ctx, gin.H{
		"title": cfg.AboutAuthorTitle,
		"html":  cfg.AboutAuthorHTML,
	})
}

// AboutTech returns the technology stack page context.
func (p *PagesController) AboutTech(ctx *gin.Context) {
	cfg := config.Get()
	utils.Success(ctx, gin.H{
		"title": cfg.AboutTechTitle,
		"html":  cfg.AboutTechHTML,
	})
}
