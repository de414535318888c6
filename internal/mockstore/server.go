// Package mockstore serves an in-memory to-do collection with the same
// resource shape as the hosted mock API.
package mockstore

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/twiced-technology-gmbh/dayplan/internal/task"
)

// Server holds the collection and its router.
type Server struct {
	mu     sync.Mutex
	items  []*task.Task
	nextID int
	router *gin.Engine
}

// New returns a server exposing /:collection. Any collection name is
// accepted and all names share one item list.
func New() *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{nextID: 1}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "mock store is running"})
	})
	r.GET("/:collection", s.list)
	r.POST("/:collection", s.create)
	r.GET("/:collection/:id", s.get)
	r.PUT("/:collection/:id", s.update)
	r.DELETE("/:collection/:id", s.remove)

	s.router = r
	return s
}

// Handler returns the HTTP handler for use with net/http or httptest.
func (s *Server) Handler() http.Handler { return s.router }

// Seed inserts tasks as if they had been created, assigning ids.
func (s *Server) Seed(tasks ...*task.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tasks {
		cp := *t
		s.insertLocked(&cp)
	}
}

// Len returns the number of stored tasks.
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Server) insertLocked(t *task.Task) {
	t.ID = task.ID(strconv.Itoa(s.nextID))
	s.nextID++
	s.items = append(s.items, t)
}

func (s *Server) indexLocked(id string) int {
	for i, t := range s.items {
		if t.ID.String() == id {
			return i
		}
	}
	return -1
}

func (s *Server) list(c *gin.Context) {
	s.mu.Lock()
	out := make([]*task.Task, len(s.items))
	copy(out, s.items)
	s.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (s *Server) get(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(c.Param("id"))
	if i < 0 {
		c.JSON(http.StatusNotFound, "Not found")
		return
	}
	c.JSON(http.StatusOK, s.items[i])
}

func (s *Server) create(c *gin.Context) {
	var t task.Task
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	s.mu.Lock()
	s.insertLocked(&t)
	s.mu.Unlock()
	c.JSON(http.StatusCreated, &t)
}

func (s *Server) update(c *gin.Context) {
	var t task.Task
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(c.Param("id"))
	if i < 0 {
		c.JSON(http.StatusNotFound, "Not found")
		return
	}
	t.ID = s.items[i].ID
	s.items[i] = &t
	c.JSON(http.StatusOK, &t)
}

func (s *Server) remove(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(c.Param("id"))
	if i < 0 {
		c.JSON(http.StatusNotFound, "Not found")
		return
	}
	removed := s.items[i]
	s.items = append(s.items[:i], s.items[i+1:]...)
	c.JSON(http.StatusOK, removed)
}
