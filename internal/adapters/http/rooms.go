package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/gujuliano18/webrtc/internal/core"
	"github.com/gujuliano18/webrtc/internal/domain"
	"github.com/gujuliano18/webrtc/internal/storage"
)

// RoomsAPI is the REST surface over the room registry plus cover
// uploads. Realtime state flows over the websocket, not here.
type RoomsAPI struct {
	Rooms     *core.Registry
	Store     storage.BlobStore
	MaxUpload int64
}

type createRoomRequest struct {
	Name  string `json:"name" binding:"required"`
	Cover string `json:"cover,omitempty"`
}

func (a *RoomsAPI) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": a.Rooms.List()})
}

func (a *RoomsAPI) Create(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid name"})
		return
	}
	owner := domain.UserID(c.GetString("client_token"))
	room := a.Rooms.CreateRoom(domain.RoomName(req.Name), req.Cover, owner)
	c.JSON(http.StatusCreated, gin.H{"id": room.ID, "name": room.Name})
}

func (a *RoomsAPI) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, a.MaxUpload)
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}
	defer file.Close()

	ref, err := a.Store.Save(header.Filename, file)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("upload save")
		c.JSON(http.StatusBadRequest, gin.H{"error": "upload failed"})
		return
	}

	if roomID := c.Query("room"); roomID != "" {
		if err := a.Rooms.SetCover(domain.RoomID(roomID), ref); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"ref": ref, "url": "/uploads/" + ref})
}
