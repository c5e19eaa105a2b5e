package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/gantt/internal/config"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/hierarchy"
	"github.com/alexanderramin/gantt/internal/importer"
	"github.com/alexanderramin/gantt/internal/repository"
	"github.com/alexanderramin/gantt/internal/service"
)

const maxSearchSize = 1 << 10

func respondError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidTask), errors.Is(err, service.ErrInvalidLayout):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// layoutRequest reads the layout query parameters. Missing values fall
// back to the server defaults.
func (s *Server) layoutRequest(c *gin.Context) (service.LayoutRequest, error) {
	req := service.LayoutRequest{
		Search:          c.Query("search"),
		Expanded:        hierarchy.NewExpandedSet(config.SplitList(c.Query("expanded"))...),
		EndYear:         s.deps.EndYear,
		WeekColumnWidth: s.deps.WeekColumnWidth,
	}
	if len(req.Search) > maxSearchSize {
		return req, fmt.Errorf("search exceeds maximum size of 1KB")
	}
	if key := c.Query("sort"); key != "" {
		dir, err := hierarchy.ParseDirection(c.DefaultQuery("dir", "asc"))
		if err != nil {
			return req, err
		}
		req.Sort = hierarchy.SortState{Key: key, Dir: dir}
	}
	if v := c.Query("endYear"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("invalid endYear %q", v)
		}
		req.EndYear = year
	}
	if v := c.Query("weekWidth"); v != "" {
		w, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, fmt.Errorf("invalid weekWidth %q", v)
		}
		req.WeekColumnWidth = w
	}
	if v := c.Query("today"); v != "" {
		today, err := domain.ParseDate(v)
		if err != nil {
			return req, err
		}
		req.Today = today
	}
	return req, nil
}

func (s *Server) handleLayout(c *gin.Context) {
	req, err := s.layoutRequest(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	layout, err := s.deps.Layout.Compute(c.Request.Context(), req)
	if err != nil {
		respondError(c, statusFor(err), err)
		return
	}
	respondData(c, http.StatusOK, toLayoutDTO(layout, s.deps.Columns))
}

func (s *Server) handleColumns(c *gin.Context) {
	respondData(c, http.StatusOK, s.deps.Columns)
}

func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.deps.Tasks.List(c.Request.Context())
	if err != nil {
		respondError(c, statusFor(err), err)
		return
	}
	respondData(c, http.StatusOK, importer.ToWireList(tasks))
}

func (s *Server) handleGetTask(c *gin.Context) {
	task, err := s.deps.Tasks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, statusFor(err), err)
		return
	}
	respondData(c, http.StatusOK, importer.ToWire(task))
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var in taskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	start, end, typ, err := in.parse()
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	nt := service.NewTask{
		Name:      in.Name,
		StartDate: start,
		EndDate:   end,
		Type:      typ,
		Parent:    in.Parent,
	}
	if in.Progress != nil {
		nt.Progress = *in.Progress
	}
	created, err := s.deps.Tasks.Add(c.Request.Context(), nt)
	if err != nil {
		respondError(c, statusFor(err), err)
		return
	}
	respondData(c, http.StatusCreated, importer.ToWire(created))
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	var in taskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	start, end, typ, err := in.parse()
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	edit := service.TaskEdit{
		ID:        c.Param("id"),
		Name:      in.Name,
		StartDate: start,
		EndDate:   end,
		Progress:  in.Progress,
	}
	if in.Type != "" {
		edit.Type = &typ
	}
	updated, err := s.deps.Tasks.Update(c.Request.Context(), edit)
	if err != nil {
		respondError(c, statusFor(err), err)
		return
	}
	respondData(c, http.StatusOK, importer.ToWire(updated))
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	removed, err := s.deps.Tasks.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, statusFor(err), err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"removed": removed})
}

func (s *Server) handleToggle(c *gin.Context) {
	var in expandedInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if in.ID == "" {
		respondError(c, http.StatusBadRequest, errors.New("id is required"))
		return
	}
	set := hierarchy.NewExpandedSet(cleanIDs(in.Expanded)...).Toggle(in.ID)
	respondData(c, http.StatusOK, gin.H{"expanded": set})
}

func (s *Server) handleExpandAll(c *gin.Context) {
	tasks, err := s.deps.Tasks.List(c.Request.Context())
	if err != nil {
		respondError(c, statusFor(err), err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"expanded": hierarchy.ExpandAll(tasks)})
}

func (s *Server) handleCollapseAll(c *gin.Context) {
	respondData(c, http.StatusOK, gin.H{"expanded": hierarchy.CollapseAll()})
}
