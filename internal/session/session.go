// Package session owns the locally persisted state of the app: the
// active-user snapshot, the remember-me credential pair, and the one-shot
// greeting flag. The snapshot is read and replaced wholesale; membership
// mutations write it locally first and roll the write back if the remote
// store rejects the corresponding update.
package session

import (
	"encoding/json"
	"fmt"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/joinboard/join-api/internal/models"
)

const (
	keyActiveUser    = "activeUser"
	keyRememberMe    = "rememberMeData"
	keyGreetingShown = "greetingShown"
)

// RememberMe is the credential pair persisted for login prefill. It lives
// only in the user's own session, never in the remote store.
type RememberMe struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SetActiveUser replaces the session snapshot. Called at login and after
// every local membership mutation.
func SetActiveUser(c *gin.Context, user *models.ActiveUser) error {
	encoded, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session: encode active user: %w", err)
	}
	s := sessions.Default(c)
	s.Set(keyActiveUser, string(encoded))
	if err := s.Save(); err != nil {
		return fmt.Errorf("session: save active user: %w", err)
	}
	return nil
}

// ActiveUser loads the snapshot, if a session exists.
func ActiveUser(c *gin.Context) (*models.ActiveUser, bool) {
	s := sessions.Default(c)
	stored, ok := s.Get(keyActiveUser).(string)
	if !ok || stored == "" {
		return nil, false
	}
	var user models.ActiveUser
	if err := json.Unmarshal([]byte(stored), &user); err != nil {
		return nil, false
	}
	return &user, true
}

// Clear destroys the snapshot and the greeting flag at logout. The
// remember-me pair survives until explicitly cleared.
func Clear(c *gin.Context) error {
	s := sessions.Default(c)
	s.Delete(keyActiveUser)
	s.Delete(keyGreetingShown)
	if err := s.Save(); err != nil {
		return fmt.Errorf("session: clear: %w", err)
	}
	return nil
}

func SetRememberMe(c *gin.Context, remember *RememberMe) error {
	encoded, err := json.Marshal(remember)
	if err != nil {
		return fmt.Errorf("session: encode remember-me: %w", err)
	}
	s := sessions.Default(c)
	s.Set(keyRememberMe, string(encoded))
	return s.Save()
}

func ClearRememberMe(c *gin.Context) error {
	s := sessions.Default(c)
	s.Delete(keyRememberMe)
	return s.Save()
}

func RememberedCredentials(c *gin.Context) (*RememberMe, bool) {
	s := sessions.Default(c)
	stored, ok := s.Get(keyRememberMe).(string)
	if !ok || stored == "" {
		return nil, false
	}
	var remember RememberMe
	if err := json.Unmarshal([]byte(stored), &remember); err != nil {
		return nil, false
	}
	return &remember, true
}

// SetGreetingShown flips the one-shot greeting flag. Reset to false at
// every login.
func SetGreetingShown(c *gin.Context, shown bool) error {
	s := sessions.Default(c)
	s.Set(keyGreetingShown, shown)
	return s.Save()
}

func GreetingShown(c *gin.Context) bool {
	s := sessions.Default(c)
	shown, ok := s.Get(keyGreetingShown).(bool)
	return ok && shown
}

// Persister applies a snapshot to whatever holds it. Services use it to
// run the optimistic write/rollback protocol without knowing about gin.
type Persister interface {
	Persist(user *models.ActiveUser) error
}

// ContextPersister persists snapshots into the request's session.
type ContextPersister struct {
	C *gin.Context
}

func (p ContextPersister) Persist(user *models.ActiveUser) error {
	return SetActiveUser(p.C, user)
}
