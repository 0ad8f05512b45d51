package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/five82/dinemenu/internal/entry"
	"github.com/five82/dinemenu/internal/state"
)

type entryView struct {
	UniqueID     string         `json:"unique_id"`
	Title        string         `json:"title"`
	SchoolID     string         `json:"school_id"`
	LocationID   string         `json:"location_id"`
	LocationName string         `json:"location_name"`
	Dynamic      bool           `json:"dynamic"`
	PeriodID     string         `json:"period_id,omitempty"`
	PeriodName   string         `json:"period_name,omitempty"`
	Windows      []entry.Window `json:"windows,omitempty"`
}

func newEntryView(e entry.Entry) entryView {
	v := entryView{
		UniqueID:     e.UniqueID(),
		Title:        e.Title,
		SchoolID:     e.SchoolID,
		LocationID:   e.LocationID,
		LocationName: e.LocationName,
	}
	switch sel := e.Selection.(type) {
	case entry.Static:
		v.PeriodID = sel.PeriodID
		v.PeriodName = sel.PeriodName
	case entry.Dynamic:
		v.Dynamic = true
		v.Windows = sel.Copy().Windows
	}
	return v
}

func (s *Server) handleListEntries(c *gin.Context) {
	entries := s.backend.Entries()
	views := make([]entryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, newEntryView(e))
	}
	c.JSON(http.StatusOK, gin.H{"entries": views})
}

func (s *Server) handleListEntities(c *gin.Context) {
	kind := c.Query("kind")
	all := s.backend.Entities()
	out := make([]state.Snapshot, 0, len(all))
	for _, snap := range all {
		if kind != "" && string(snap.Kind) != kind {
			continue
		}
		out = append(out, snap)
	}
	c.JSON(http.StatusOK, gin.H{"entities": out})
}

func (s *Server) handleGetEntity(c *gin.Context) {
	id := c.Param("entity_id")
	snap, ok := s.backend.Entity(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "entity not found"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handlePress(c *gin.Context) {
	id := c.Param("entity_id")
	refreshed, err := s.backend.Press(c.Request.Context(), id)
	switch {
	case errors.Is(err, state.ErrUnknownEntity):
		c.JSON(http.StatusNotFound, gin.H{"error": "entity not found"})
		return
	case errors.Is(err, state.ErrNotPressable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		s.logger.Error("press failed", "entity", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"refreshed": refreshed})
}
