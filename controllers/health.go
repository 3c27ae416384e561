package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/blogforge/blogd/utils"
)

// Health is a liveness probe.
func Health(ctx *gin.Context) {
	utils.Success(ctx, gin.H{"status": "ok"})
}
