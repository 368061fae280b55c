package controllers

import (
	"net/http"

	"mblog/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type StatsController struct {
	statsService *services.StatsService
}

func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{
		statsService: services.NewStatsService(db),
	}
}

func (sc *StatsController) GetStats(c *gin.Context) {
	stats, err := sc.statsService.SiteStats()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}

func (sc *StatsController) GetArchive(c *gin.Context) {
	groups, err := sc.statsService.Archive()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": groups})
}

func (sc *StatsController) Search(c *gin.Context) {
	results, err := sc.statsService.Search(c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": results})
}
