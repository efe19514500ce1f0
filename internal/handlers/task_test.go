package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joinboard/join-api/internal/dto"
	"github.com/joinboard/join-api/internal/middleware"
	"github.com/joinboard/join-api/internal/models"
	"github.com/joinboard/join-api/internal/repository"
	"github.com/joinboard/join-api/internal/services"
	"github.com/joinboard/join-api/internal/store"
	"github.com/joinboard/join-api/internal/storetest"
	"github.com/stretchr/testify/suite"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	server *storetest.Server
	router *gin.Engine
	login  *httptest.ResponseRecorder
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	suite.server = storetest.New()

	client := store.New(suite.server.URL(), 5*time.Second)
	taskRepo := repository.NewTaskRepository(client)
	userRepo := repository.NewUserRepository(client)

	authService := services.NewAuthService(userRepo)
	taskService := services.NewTaskService(taskRepo, userRepo)

	authHandler := NewAuthHandler(authService)
	taskHandler := NewTaskHandler(taskService)

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.router.Use(sessions.Sessions("join_session", cookie.NewStore([]byte("secret"))))
	suite.router.POST("/api/auth/login", authHandler.Login)
	suite.router.GET("/api/board", middleware.RequireAuth(), taskHandler.Board)

	tasks := suite.router.Group("/api/tasks")
	tasks.Use(middleware.RequireAuth())
	tasks.GET("", taskHandler.ListTasks)
	tasks.POST("", taskHandler.CreateTask)
	tasks.GET("/:id", taskHandler.GetTask)
	tasks.PUT("/:id", taskHandler.UpdateTask)
	tasks.DELETE("/:id", taskHandler.DeleteTask)
	tasks.PATCH("/:id/move", taskHandler.MoveTask)
	tasks.PATCH("/:id/subtasks/:subId", taskHandler.ToggleSubtask)

	seedAccount(suite.T(), suite.server, 1, "user@gmail.com", "supersecret")
	suite.server.Seed("tasks", 6, models.Task{
		ID: 6, Title: "Exploring Join", Status: models.StatusInProgress, Priority: models.PriorityLow,
		Subtasks: []models.Subtask{{Name: "Find the board.", SubID: 1, Done: true}, {Name: "Read the tutorials.", SubID: 2}},
	})

	suite.login = do(suite.T(), suite.router, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "user@gmail.com",
		"password": "supersecret",
	}, nil)
	suite.Require().Equal(http.StatusOK, suite.login.Code)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	suite.server.Close()
}

func (suite *TaskHandlerTestSuite) TestRequiresAuth() {
	w := do(suite.T(), suite.router, http.MethodGet, "/api/tasks", nil, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListTasks() {
	w := do(suite.T(), suite.router, http.MethodGet, "/api/tasks", nil, suite.login)
	suite.Require().Equal(http.StatusOK, w.Code)

	var response struct {
		Tasks []dto.TaskDTO `json:"tasks"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Tasks, 1)
	suite.Equal("Exploring Join", response.Tasks[0].Title)
}

func (suite *TaskHandlerTestSuite) TestCreateTaskAppearsOnBoard() {
	w := do(suite.T(), suite.router, http.MethodPost, "/api/tasks", map[string]any{
		"title":    "Water the plants",
		"status":   "todo",
		"priority": "urgent",
		"subtasks": []string{"fill the can"},
	}, suite.login)
	suite.Require().Equal(http.StatusCreated, w.Code)

	var created dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))
	suite.Equal(7, created.ID, "ids continue after the last stored record")
	suite.Require().Len(created.Subtasks, 1)
	suite.Equal(1, created.Subtasks[0].SubID)

	// The membership update happened in the session, so the new task is
	// visible without logging in again.
	board := do(suite.T(), suite.router, http.MethodGet, "/api/board", nil, w)
	suite.Require().Equal(http.StatusOK, board.Code)

	var boardDTO dto.BoardDTO
	suite.Require().NoError(json.Unmarshal(board.Body.Bytes(), &boardDTO))
	suite.Require().Len(boardDTO.Columns, 4)
	suite.Equal(models.StatusTodo, boardDTO.Columns[0].Status)
	suite.Require().Len(boardDTO.Columns[0].Tasks, 1)
	suite.Equal("Water the plants", boardDTO.Columns[0].Tasks[0].Title)
}

func (suite *TaskHandlerTestSuite) TestMoveTaskClampsAtLastColumn() {
	w := do(suite.T(), suite.router, http.MethodPatch, "/api/tasks/6/move", map[string]any{"direction": 1}, suite.login)
	suite.Require().Equal(http.StatusOK, w.Code)

	var task dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &task))
	suite.Equal(models.StatusAwaitFeedback, task.Status)

	w = do(suite.T(), suite.router, http.MethodPatch, "/api/tasks/6/move", map[string]any{"direction": 1}, suite.login)
	suite.Require().Equal(http.StatusOK, w.Code)
	w = do(suite.T(), suite.router, http.MethodPatch, "/api/tasks/6/move", map[string]any{"direction": 1}, suite.login)
	suite.Require().Equal(http.StatusOK, w.Code)

	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &task))
	suite.Equal(models.StatusDone, task.Status, "moving past the last column keeps the task there")
}

func (suite *TaskHandlerTestSuite) TestMoveTaskRejectsBadDirection() {
	w := do(suite.T(), suite.router, http.MethodPatch, "/api/tasks/6/move", map[string]any{"direction": 2}, suite.login)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestToggleSubtask() {
	w := do(suite.T(), suite.router, http.MethodPatch, "/api/tasks/6/subtasks/2", nil, suite.login)
	suite.Require().Equal(http.StatusOK, w.Code)

	var task dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &task))
	suite.True(task.Subtasks[1].Done)

	w = do(suite.T(), suite.router, http.MethodPatch, "/api/tasks/6/subtasks/9", nil, suite.login)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTaskKeepsUntouchedFields() {
	w := do(suite.T(), suite.router, http.MethodPut, "/api/tasks/6", map[string]any{
		"title": "Exploring Join, renamed",
	}, suite.login)
	suite.Require().Equal(http.StatusOK, w.Code)

	var task dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &task))
	suite.Equal("Exploring Join, renamed", task.Title)
	suite.Equal(models.StatusInProgress, task.Status)
	suite.Len(task.Subtasks, 2)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask() {
	w := do(suite.T(), suite.router, http.MethodDelete, "/api/tasks/6", nil, suite.login)
	suite.Require().Equal(http.StatusOK, w.Code)

	suite.Nil(suite.server.Record("tasks", 6))

	list := do(suite.T(), suite.router, http.MethodGet, "/api/tasks", nil, w)
	suite.Require().Equal(http.StatusOK, list.Code)

	var response struct {
		Tasks []dto.TaskDTO `json:"tasks"`
	}
	suite.Require().NoError(json.Unmarshal(list.Body.Bytes(), &response))
	suite.Empty(response.Tasks)
}

func (suite *TaskHandlerTestSuite) TestGetMissingTask() {
	w := do(suite.T(), suite.router, http.MethodGet, "/api/tasks/99", nil, suite.login)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestRejectsMalformedTaskID() {
	w := do(suite.T(), suite.router, http.MethodGet, "/api/tasks/abc", nil, suite.login)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), `"code":"INVALID_FORMAT"`)
}

// TestTaskHandlerTestSuite runs the test suite
func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
