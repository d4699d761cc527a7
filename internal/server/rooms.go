package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	roomdomain "github.com/stayware/stayflow/internal/room/domain"
)

const dateLayout = "2006-01-02"

// CheckAvailability reports per-room availability for a stay window.
// room_ids is an optional comma-separated list; empty means every room.
func (s *Server) CheckAvailability(c *gin.Context) {
	checkIn, checkOut, err := parseStayWindow(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	roomIDs, err := parseRoomIDs(c.Query("room_ids"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.roomSvc.CheckAvailability(c.Request.Context(), roomdomain.AvailabilityRequest{
		RoomIDs:  roomIDs,
		CheckIn:  checkIn,
		CheckOut: checkOut,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListAvailableRooms returns only the rooms free for the stay window.
func (s *Server) ListAvailableRooms(c *gin.Context) {
	checkIn, checkOut, err := parseStayWindow(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	rooms, err := s.roomSvc.AvailableRooms(c.Request.Context(), checkIn, checkOut)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

func (s *Server) DeleteRoom(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.roomSvc.DeleteRoom(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func parseStayWindow(c *gin.Context) (time.Time, time.Time, error) {
	checkIn, err := time.Parse(dateLayout, c.Query("check_in"))
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidRequest
	}
	checkOut, err := time.Parse(dateLayout, c.Query("check_out"))
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidRequest
	}
	return checkIn, checkOut, nil
}

func parseRoomIDs(raw string) ([]uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, part := range parts {
		id, err := uuid.Parse(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
