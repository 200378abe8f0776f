package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/axellelanca/linkbio/internal/services"
)

const (
	accessCookie  = "access_token"
	refreshCookie = "refresh_token"
)

// setAuthCookies writes both auth cookies. They are HTTP-only so the tokens
// are never readable from page scripts.
func setAuthCookies(c *gin.Context, authService *services.AuthService, cookies CookieConfig, accessToken, refreshToken string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessCookie, accessToken,
		int(authService.AccessTTL().Seconds()), "/", cookies.Domain, cookies.Secure, true)
	c.SetCookie(refreshCookie, refreshToken,
		int(authService.RefreshTTL().Seconds()), "/", cookies.Domain, cookies.Secure, true)
}

// clearAuthCookies expires both auth cookies.
func clearAuthCookies(c *gin.Context, cookies CookieConfig) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessCookie, "", -1, "/", cookies.Domain, cookies.Secure, true)
	c.SetCookie(refreshCookie, "", -1, "/", cookies.Domain, cookies.Secure, true)
}

// RegisterHandler creates a new account and starts a session.
func RegisterHandler(authService *services.AuthService, cookies CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.RegisterInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}

		result, err := authService.Register(in)
		if err != nil {
			respondError(c, err)
			return
		}

		setAuthCookies(c, authService, cookies, result.AccessToken, result.RefreshToken)
		c.JSON(http.StatusCreated, gin.H{
			"user":    result.User,
			"message": "Registration successful",
		})
	}
}

// LoginHandler authenticates with email and password and starts a session.
func LoginHandler(authService *services.AuthService, cookies CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.LoginInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}

		result, err := authService.Login(in)
		if err != nil {
			respondError(c, err)
			return
		}

		setAuthCookies(c, authService, cookies, result.AccessToken, result.RefreshToken)
		c.JSON(http.StatusOK, gin.H{
			"user":    result.User,
			"message": "Login successful",
		})
	}
}

// RefreshHandler rotates the refresh token and reissues both cookies. It is
// deliberately outside the auth middleware: it is the endpoint clients call
// precisely when their access token no longer works.
func RefreshHandler(authService *services.AuthService, cookies CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(refreshCookie)
		if err != nil || token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing refresh token"})
			return
		}

		result, err := authService.Refresh(token)
		if err != nil {
			respondError(c, err)
			return
		}

		setAuthCookies(c, authService, cookies, result.AccessToken, result.RefreshToken)
		c.JSON(http.StatusOK, gin.H{"message": "Token refreshed successfully"})
	}
}

// LogoutHandler ends the session: the stored refresh token is deleted and
// both cookies are cleared.
func LogoutHandler(authService *services.AuthService, cookies CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(refreshCookie); err == nil && token != "" {
			if err := authService.Logout(token); err != nil {
				respondError(c, err)
				return
			}
		}

		clearAuthCookies(c, cookies)
		c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
	}
}

// MeHandler returns the authenticated user's fresh snapshot.
func MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, currentUser(c))
	}
}
