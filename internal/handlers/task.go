package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/huangang/projectpulse/internal/middleware"
	"github.com/huangang/projectpulse/internal/services"
	"github.com/huangang/projectpulse/pkg/response"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// Board returns all tasks grouped by status
// GET /api/tasks
func (h *TaskHandler) Board(c *gin.Context) {
	board, err := h.taskService.Board(middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, board)
}

// GET /api/tasks/:id
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "task")
	if !ok {
		return
	}

	task, err := h.taskService.Get(middleware.GetUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, task)
}

// POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req services.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.Create(middleware.GetUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, task)
}

// Move changes a task's board column
// POST /api/tasks/:id/move
func (h *TaskHandler) Move(c *gin.Context) {
	id, ok := parseID(c, "task")
	if !ok {
		return
	}

	var req services.MoveTaskRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.Move(middleware.GetUserID(c), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"status": "ok", "new_status": task.Status})
}

// LogTime records hours against a task
// POST /api/tasks/:id/log-time
func (h *TaskHandler) LogTime(c *gin.Context) {
	id, ok := parseID(c, "task")
	if !ok {
		return
	}

	var req services.LogTimeRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.taskService.LogTime(middleware.GetUserID(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, result)
}

// GET /api/tasks/:id/time-entries
func (h *TaskHandler) TimeEntries(c *gin.Context) {
	id, ok := parseID(c, "task")
	if !ok {
		return
	}

	entries, err := h.taskService.ListTimeEntries(middleware.GetUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, entries)
}
