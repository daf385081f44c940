package middleware

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"blogdeck/internal/apperr"
	"blogdeck/internal/models"
	"blogdeck/internal/services"
)

const (
	// SessionUserID is the session field holding the signed-in user's id.
	SessionUserID = "user_id"
	// CurrentUserKey is the gin context key of the loaded *models.User.
	CurrentUserKey = "user"
)

// UserLookup resolves a session's user id to an account.
type UserLookup interface {
	Get(ctx context.Context, userID string) (*models.User, error)
}

// LoadUser puts the signed-in user on the context. A session pointing at an
// account that no longer exists is cleared.
func LoadUser(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, _ := session.Get(SessionUserID).(string)
		if userID == "" {
			c.Next()
			return
		}

		user, err := users.Get(c.Request.Context(), userID)
		switch {
		case err == nil:
			c.Set(CurrentUserKey, user)
		case apperr.IsNotFound(err):
			session.Clear()
			_ = session.Save()
		}
		c.Next()
	}
}

// AuthRequired rejects requests without a signed-in user.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
			return
		}
		c.Next()
	}
}

// AdminRequired rejects requests from anyone but an admin.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
			return
		}
		if user.Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(CurrentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

// Actor is the acting user as seen by the services. Anonymous requests get
// the zero Actor.
func Actor(c *gin.Context) services.Actor {
	user, ok := CurrentUser(c)
	if !ok {
		return services.Actor{}
	}
	return services.Actor{UserID: user.ID, Role: user.Role}
}

// SignIn records userID in the session.
func SignIn(c *gin.Context, userID string) error {
	session := sessions.Default(c)
	session.Clear()
	session.Set(SessionUserID, userID)
	return session.Save()
}

// SignOut forgets the session's user.
func SignOut(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	return session.Save()
}
