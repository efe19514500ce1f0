package handlers

import (
	"encoding/json"
	"net/http"
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
	"github.com/stretchr/testify/require"
)

func TestSummaryHandler_CountersAndOneShotGreeting(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv := storetest.New()
	t.Cleanup(srv.Close)

	client := store.New(srv.URL(), 5*time.Second)
	taskRepo := repository.NewTaskRepository(client)
	userRepo := repository.NewUserRepository(client)

	authHandler := NewAuthHandler(services.NewAuthService(userRepo))
	summaryHandler := NewSummaryHandler(services.NewTaskService(taskRepo, userRepo))
	summaryHandler.now = func() time.Time {
		return time.Date(2024, 10, 1, 9, 30, 0, 0, time.UTC)
	}

	r := gin.New()
	r.Use(sessions.Sessions("join_session", cookie.NewStore([]byte("secret"))))
	r.POST("/api/auth/login", authHandler.Login)
	r.GET("/api/summary", middleware.RequireAuth(), summaryHandler.Summary)

	srv.Seed("users", 1, models.User{
		ID: 1, Name: "Existing User", Initials: "EU", Email: "user@gmail.com",
		Password: mustHash(t, "supersecret"), Color: models.UserColorSentinel,
		Tasks: []int{1, 2},
	})
	srv.Seed("tasks", 1, models.Task{ID: 1, Title: "a", Status: models.StatusTodo, Priority: models.PriorityUrgent, Date: "2024-11-10"})
	srv.Seed("tasks", 2, models.Task{ID: 2, Title: "b", Status: models.StatusDone, Priority: models.PriorityLow, Date: "2024-10-03"})

	login := do(t, r, http.MethodPost, "/api/auth/login", map[string]any{
		"email": "user@gmail.com", "password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusOK, login.Code)

	first := do(t, r, http.MethodGet, "/api/summary", nil, login)
	require.Equal(t, http.StatusOK, first.Code)

	var summary dto.SummaryDTO
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &summary))
	require.Equal(t, 2, summary.Total)
	require.Equal(t, 1, summary.Todo)
	require.Equal(t, 1, summary.Done)
	require.Equal(t, 1, summary.Urgent)
	require.Equal(t, "October 3, 2024", summary.NextDeadline)
	require.Equal(t, "Good morning", summary.Greeting)
	require.Equal(t, "Existing User", summary.GreetingName)
	require.False(t, summary.GreetingShown, "the first summary after login animates the greeting")

	second := do(t, r, http.MethodGet, "/api/summary", nil, first)
	require.Equal(t, http.StatusOK, second.Code)
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &summary))
	require.True(t, summary.GreetingShown, "later summaries must not animate it again")
}

func TestGreetingMessageByHour(t *testing.T) {
	at := func(hour int) time.Time {
		return time.Date(2024, 10, 1, hour, 0, 0, 0, time.UTC)
	}
	require.Equal(t, "Good morning", greetingMessage(at(7)))
	require.Equal(t, "Good morning", greetingMessage(at(11)))
	require.Equal(t, "Good afternoon", greetingMessage(at(12)))
	require.Equal(t, "Good afternoon", greetingMessage(at(17)))
	require.Equal(t, "Good evening", greetingMessage(at(18)))
	require.Equal(t, "Good evening", greetingMessage(at(23)))
}
