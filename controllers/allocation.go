package controllers

import (
	"log"
	"net/http"

	"cv-portal-api/config"
	"cv-portal-api/services"

	"github.com/gin-gonic/gin"
)

// ===================== CV ALLOCATION =====================

// GetAllocationStats returns the reviewer workload snapshot. Served from
// a short TTL cache; figures may lag writes by up to the TTL window.
func GetAllocationStats(c *gin.Context) {
	stats, err := services.NewAllocationService(config.DB).Stats()
	if err != nil {
		log.Printf("Failed to load allocation stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load allocation stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

// RefreshAllocationStats drops the cached snapshot so the next read
// re-queries the store.
func RefreshAllocationStats(c *gin.Context) {
	services.ClearStatsCache()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Allocation stats cache cleared"})
}

// GetUnassignedCounts tallies pending, unassigned CVs per domain.
func GetUnassignedCounts(c *gin.Context) {
	counts, err := services.NewAllocationService(config.DB).UnassignedByDomain()
	if err != nil {
		log.Printf("Failed to count unassigned CVs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count unassigned CVs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "unassigned": counts})
}

// RunSmartAllocation triggers one greedy allocation pass. A run with
// nothing to allocate is a successful no-op. On a mid-batch write
// failure the response still reports the assignments already committed.
func RunSmartAllocation(c *gin.Context) {
	result, err := services.NewAllocationService(config.DB).RunSmartAllocation()
	if err != nil {
		log.Printf("Allocation run failed: %v", err)
		status := http.StatusInternalServerError
		if result != nil {
			c.JSON(status, gin.H{
				"error":  "Allocation run failed partway",
				"result": result,
			})
			return
		}
		c.JSON(status, gin.H{"error": "Allocation run failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}
