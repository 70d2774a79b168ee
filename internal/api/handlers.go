package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetMounts returns every display block in panel order.
func (s *Server) GetMounts(c *gin.Context) {
	c.JSON(http.StatusOK, s.panel.Blocks())
}

// GetMount returns one block. Mount names contain slashes, so the name
// travels as a query parameter: /api/v1/mount?name=/main.ogg
func (s *Server) GetMount(c *gin.Context) {
	name := c.Query("name")
	block, ok := s.panel.Get(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown mount"})
		return
	}
	c.JSON(http.StatusOK, block)
}

// GetSongHistory returns recent song events
// Query Params: mount (optional), limit (default from config)
func (s *Server) GetSongHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(s.cfg.Watcher.HistoryLimit)))
	if limit <= 0 || limit > 1000 {
		limit = s.cfg.Watcher.HistoryLimit
	}

	songs, err := s.recorder.RecentSongs(c.Query("mount"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, songs)
}

// GetEventHistory returns recent mount lifecycle events
// Query Params: mount (optional), limit (default from config)
func (s *Server) GetEventHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(s.cfg.Watcher.HistoryLimit)))
	if limit <= 0 || limit > 1000 {
		limit = s.cfg.Watcher.HistoryLimit
	}

	events, err := s.recorder.RecentEvents(c.Query("mount"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, events)
}
