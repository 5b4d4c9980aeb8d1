package main

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type API struct {
	auth     *AuthService
	files    *FileService
	users    *UserStore
	meta     *MetadataStore
	sessions *SessionStore
	db       *sql.DB
}

func NewAPI(auth *AuthService, files *FileService, users *UserStore, meta *MetadataStore, sessions *SessionStore, db *sql.DB) *API {
	return &API{
		auth:     auth,
		files:    files,
		users:    users,
		meta:     meta,
		sessions: sessions,
		db:       db,
	}
}

func (a *API) RegisterRoutes(router *gin.Engine) {
	router.GET("/status", a.status)
	router.GET("/stats", a.stats)

	router.POST("/users", a.createUser)
	router.GET("/connect", a.connect)
	router.GET("/disconnect", a.disconnect)

	router.POST("/files", a.authRequired(), a.uploadFile)
	router.GET("/files", a.authRequired(), a.listFiles)
	router.GET("/files/:id", a.authRequired(), a.showFile)
	router.PUT("/files/:id/publish", a.authRequired(), a.publishFile)
	router.PUT("/files/:id/unpublish", a.authRequired(), a.unpublishFile)

	// Public files are readable without a session, so no middleware here.
	router.GET("/files/:id/data", a.fileData)
}

// authRequired resolves X-Token to a user id before any handler logic runs.
// Failure aborts with the one generic 401 body.
func (a *API) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := a.sessions.Resolve(c.GetHeader("X-Token"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set("userID", userID)
		c.Next()
	}
}

func (a *API) status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"db":       a.db.Ping() == nil,
		"sessions": a.sessions != nil,
	})
}

func (a *API) stats(c *gin.Context) {
	users, err := a.users.Count()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	files, err := a.meta.Count()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "files": files})
}

func (a *API) createUser(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := a.auth.Register(req.Email, req.Password)
	if err != nil {
		a.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "email": user.Email})
}

func (a *API) connect(c *gin.Context) {
	token, err := a.auth.Authenticate(c.GetHeader("Authorization"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (a *API) disconnect(c *gin.Context) {
	if err := a.auth.Logout(c.GetHeader("X-Token")); err != nil {
		a.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) uploadFile(c *gin.Context) {
	var req CreateFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := a.files.Create(a.userID(c), req)
	if err != nil {
		a.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, fileJSON(rec))
}

func (a *API) showFile(c *gin.Context) {
	rec, err := a.files.GetByID(a.userID(c), c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, fileJSON(rec))
}

func (a *API) listFiles(c *gin.Context) {
	records, err := a.files.ListChildren(a.userID(c), c.Query("parentId"), c.Query("page"))
	if err != nil {
		a.fail(c, err)
		return
	}

	list := make([]gin.H, 0, len(records))
	for i := range records {
		list = append(list, fileJSON(&records[i]))
	}
	c.JSON(http.StatusOK, list)
}

func (a *API) publishFile(c *gin.Context) {
	a.toggleFile(c, true)
}

func (a *API) unpublishFile(c *gin.Context) {
	a.toggleFile(c, false)
}

func (a *API) toggleFile(c *gin.Context, isPublic bool) {
	rec, err := a.files.SetPublic(a.userID(c), c.Param("id"), isPublic)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, fileJSON(rec))
}

func (a *API) fileData(c *gin.Context) {
	// Token is optional here; an unresolved one reads as anonymous.
	userID, _ := a.sessions.Resolve(c.GetHeader("X-Token"))

	data, err := a.files.Data(userID, c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}

	c.Data(http.StatusOK, "application/octet-stream", data)
}

func (a *API) userID(c *gin.Context) int64 {
	return c.GetInt64("userID")
}

// fail maps the service error taxonomy onto status codes. Anything outside
// the taxonomy is a storage-layer failure and surfaces as a 400 carrying the
// underlying message.
func (a *API) fail(c *gin.Context, err error) {
	var validation *ValidationError
	switch {
	case errors.Is(err, ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Msg})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

// fileJSON is the outward record shape. LocalPath stays internal.
func fileJSON(rec *FileRecord) gin.H {
	return gin.H{
		"id":       rec.ID,
		"userId":   rec.UserID,
		"name":     rec.Name,
		"type":     rec.Type,
		"isPublic": rec.IsPublic,
		"parentId": rec.ParentID,
	}
}
