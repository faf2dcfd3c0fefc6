// Package mock implements the remote API contract in memory, behind
// the same request/response shapes as the real backend. It backs the
// store tests and the serve-mock command.
package mock

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bobinette/bugtrack"
)

type account struct {
	user     bugtrack.User
	password string
}

type Server struct {
	mu sync.Mutex

	accounts map[string]*account // by username
	tokens   map[string]string   // token -> user id

	projects []*bugtrack.Project
	bugs     map[string][]*bugtrack.Bug // by project id
	noteSeq  map[string]int             // by project id / bug id

	seq int
}

func NewServer() *Server {
	return &Server{
		accounts: make(map[string]*account),
		tokens:   make(map[string]string),
		bugs:     make(map[string][]*bugtrack.Bug),
		noteSeq:  make(map[string]int),
	}
}

func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode) // avoid unnecessary log
	router := gin.New()

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Page not found"})
	})

	router.POST("/login", s.login)
	router.POST("/signup", s.signup)

	authed := router.Group("/", s.authenticate)
	authed.GET("/users", s.listUsers)

	authed.GET("/projects", s.listProjects)
	authed.POST("/projects", s.createProject)
	authed.GET("/projects/:projectID", s.getProject)
	authed.PUT("/projects/:projectID", s.renameProject)
	authed.DELETE("/projects/:projectID", s.deleteProject)
	authed.POST("/projects/:projectID/members", s.addMembers)
	authed.POST("/projects/:projectID/members/leave", s.leaveProject)
	authed.DELETE("/projects/:projectID/members/:memberID", s.removeMember)

	authed.GET("/projects/:projectID/bugs", s.listBugs)
	authed.POST("/projects/:projectID/bugs", s.createBug)
	authed.PUT("/projects/:projectID/bugs/:bugID", s.updateBug)
	authed.DELETE("/projects/:projectID/bugs/:bugID", s.deleteBug)
	authed.POST("/projects/:projectID/bugs/:bugID/close", s.closeBug)
	authed.POST("/projects/:projectID/bugs/:bugID/reopen", s.reopenBug)
	authed.POST("/projects/:projectID/bugs/:bugID/notes", s.createNote)
	authed.PUT("/projects/:projectID/bugs/:bugID/notes/:noteID", s.updateNote)
	authed.DELETE("/projects/:projectID/bugs/:bugID/notes/:noteID", s.deleteNote)

	return router
}

// ---------------------------------------------------------------- auth

func (s *Server) login(c *gin.Context) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BindJSON(&creds); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.accounts[creds.Username]
	if acc == nil || acc.password != creds.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid username or password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": s.issueToken(acc.user.ID), "user": acc.user})
}

func (s *Server) signup(c *gin.Context) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BindJSON(&creds); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if creds.Username == "" || creds.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username and password are required"})
		return
	}
	if s.accounts[creds.Username] != nil {
		c.JSON(http.StatusConflict, gin.H{"message": fmt.Sprintf("username %s is already taken", creds.Username)})
		return
	}

	user := bugtrack.User{ID: s.nextID("u"), Username: creds.Username}
	s.accounts[creds.Username] = &account{user: user, password: creds.Password}

	c.JSON(http.StatusOK, gin.H{"token": s.issueToken(user.ID), "user": user})
}

func (s *Server) authenticate(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if len(header) <= 6 || strings.ToLower(header[:7]) != "bearer " {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "no token found"})
		return
	}

	s.mu.Lock()
	userID, ok := s.tokens[header[7:]]
	var user bugtrack.User
	if ok {
		user, ok = s.userByID(userID)
	}
	s.mu.Unlock()

	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
		return
	}

	c.Set("user", user)
	c.Next()
}

func caller(c *gin.Context) bugtrack.User {
	return c.MustGet("user").(bugtrack.User)
}

// --------------------------------------------------------------- users

func (s *Server) listUsers(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]bugtrack.User, 0, len(s.accounts))
	for _, acc := range s.accounts {
		users = append(users, acc.user)
	}

	c.JSON(http.StatusOK, users)
}

// ------------------------------------------------------------ projects

func (s *Server) listProjects(c *gin.Context) {
	user := caller(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	projects := make([]bugtrack.Project, 0)
	for _, p := range s.projects {
		if p.HasMember(user.ID) {
			projects = append(projects, *p)
		}
	}

	c.JSON(http.StatusOK, projects)
}

func (s *Server) getProject(c *gin.Context) {
	user := caller(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	project := s.memberProject(c, user)
	if project == nil {
		return
	}

	c.JSON(http.StatusOK, *project)
}

func (s *Server) createProject(c *gin.Context) {
	user := caller(c)

	var body struct {
		Name    string   `json:"name"`
		Members []string `json:"members"`
	}
	if err := c.BindJSON(&body); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(body.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "project name is required"})
		return
	}

	now := time.Now()
	project := &bugtrack.Project{
		ID:        s.nextID("p"),
		Name:      body.Name,
		CreatedBy: user,
		CreatedAt: now,
		UpdatedAt: now,
		Bugs:      []bugtrack.BugRef{},
		Members: []bugtrack.ProjectMember{
			{ID: s.nextID("m"), Member: user, JoinedAt: now},
		},
	}

	for _, id := range body.Members {
		if id == user.ID {
			continue
		}
		member, ok := s.userByID(id)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("no user for id %s", id)})
			return
		}
		project.Members = append(project.Members, bugtrack.ProjectMember{
			ID: s.nextID("m"), Member: member, JoinedAt: now,
		})
	}

	s.projects = append(s.projects, project)
	c.JSON(http.StatusOK, *project)
}

func (s *Server) renameProject(c *gin.Context) {
	user := caller(c)

	var body struct {
		Name string `json:"name"`
	}
	if err := c.BindJSON(&body); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	project := s.adminProject(c, user)
	if project == nil {
		return
	}

	if strings.TrimSpace(body.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "project name is required"})
		return
	}

	project.Name = body.Name
	project.UpdatedAt = time.Now()
	c.JSON(http.StatusOK, *project)
}

func (s *Server) deleteProject(c *gin.Context) {
	user := caller(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	project := s.adminProject(c, user)
	if project == nil {
		return
	}

	for i, p := range s.projects {
		if p.ID == project.ID {
			s.projects = append(s.projects[:i], s.projects[i+1:]...)
			break
		}
	}
	delete(s.bugs, project.ID)

	c.JSON(http.StatusOK, gin.H{})
}

func (s *Server) addMembers(c *gin.Context) {
	user := caller(c)

	var body struct {
		Members []string `json:"members"`
	}
	if err := c.BindJSON(&body); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	project := s.adminProject(c, user)
	if project == nil {
		return
	}

	now := time.Now()
	added := make([]bugtrack.ProjectMember, 0, len(body.Members))
	for _, id := range body.Members {
		if project.HasMember(id) {
			c.JSON(http.StatusConflict, gin.H{"message": fmt.Sprintf("user %s is already a member", id)})
			return
		}
		member, ok := s.userByID(id)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("no user for id %s", id)})
			return
		}
		added = append(added, bugtrack.ProjectMember{ID: s.nextID("m"), Member: member, JoinedAt: now})
	}

	project.Members = append(project.Members, added...)
	c.JSON(http.StatusOK, added)
}

func (s *Server) removeMember(c *gin.Context) {
	user := caller(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	project := s.adminProject(c, user)
	if project == nil {
		return
	}

	memberID := c.Param("memberID")
	if memberID == project.CreatedBy.ID {
		c.JSON(http.StatusBadRequest, gin.H{"message": "cannot remove the project admin"})
		return
	}

	for i, m := range project.Members {
		if m.Member.ID == memberID {
			project.Members = append(project.Members[:i], project.Members[i+1:]...)
			c.JSON(http.StatusOK, gin.H{})
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("user %s is not a member", memberID)})
}

func (s *Server) leaveProject(c *gin.Context) {
	user := caller(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	project := s.memberProject(c, user)
	if project == nil {
		return
	}

	if project.CreatedBy.ID == user.ID {
		c.JSON(http.StatusBadRequest, gin.H{"message": "the admin cannot leave the project"})
		return
	}

	for i, m := range project.Members {
		if m.Member.ID == user.ID {
			project.Members = append(project.Members[:i], project.Members[i+1:]...)
			break
		}
	}

	c.JSON(http.StatusOK, gin.H{})
}

// ---------------------------------------------------------------- bugs

func (s *Server) listBugs(c *gin.Context) {
	user := caller(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	project := s.memberProject(c, user)
	if project == nil {
		return
	}

	bugs := make([]bugtrack.Bug, 0)
	for _, b := range s.bugs[project.ID] {
		bugs = append(bugs, *b)
	}

	c.JSON(http.StatusOK, bugs)
}

func (s *Server) createBug(c *gin.Context) {
	user := caller(c)

	var body struct {
		Title       string            `json:"title"`
		Description string            `json:"description"`
		Priority    bugtrack.Priority `json:"priority"`
	}
	if err := c.BindJSON(&body); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	project := s.memberProject(c, user)
	if project == nil {
		return
	}

	if strings.TrimSpace(body.Title) == "" || !body.Priority.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid bug payload"})
		return
	}

	bug := &bugtrack.Bug{
		ID:          s.nextID("b"),
		ProjectID:   project.ID,
		Title:       body.Title,
		Description: body.Description,
		Priority:    body.Priority,
		CreatedBy:   user,
		CreatedAt:   time.Now(),
		Notes:       []bugtrack.Note{},
	}

	s.bugs[project.ID] = append(s.bugs[project.ID], bug)
	project.Bugs = append(project.Bugs, bugtrack.BugRef{ID: bug.ID})

	c.JSON(http.StatusOK, *bug)
}

func (s *Server) updateBug(c *gin.Context) {
	user := caller(c)

	var body struct {
		Title       string            `json:"title"`
		Description string            `json:"description"`
		Priority    bugtrack.Priority `json:"priority"`
	}
	if err := c.BindJSON(&body); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bug := s.memberBug(c, user)
	if bug == nil {
		return
	}

	now := time.Now()
	bug.Title = body.Title
	bug.Description = body.Description
	bug.Priority = body.Priority
	bug.UpdatedBy = &user
	bug.UpdatedAt = &now

	c.JSON(http.StatusOK, *bug)
}

func (s *Server) deleteBug(c *gin.Context) {
	user := caller(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	project := s.memberProject(c, user)
	if project == nil {
		return
	}

	bugID := c.Param("bugID")
	bugs := s.bugs[project.ID]
	for i, b := range bugs {
		if b.ID == bugID {
			s.bugs[project.ID] = append(bugs[:i], bugs[i+1:]...)
			for j, ref := range project.Bugs {
				if ref.ID == bugID {
					project.Bugs = append(project.Bugs[:j], project.Bugs[j+1:]...)
					break
				}
			}
			c.JSON(http.StatusOK, gin.H{})
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("no bug for id %s", bugID)})
}

func (s *Server) closeBug(c *gin.Context) {
	user := caller(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	bug := s.memberBug(c, user)
	if bug == nil {
		return
	}

	if bug.IsResolved {
		c.JSON(http.StatusConflict, gin.H{"message": "bug is already marked closed"})
		return
	}

	now := time.Now()
	bug.IsResolved = true
	bug.ClosedBy = &user
	bug.ClosedAt = &now

	c.JSON(http.StatusOK, *bug)
}

func (s *Server) reopenBug(c *gin.Context) {
	user := caller(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	bug := s.memberBug(c, user)
	if bug == nil {
		return
	}

	if !bug.IsResolved {
		c.JSON(http.StatusConflict, gin.H{"message": "bug is already open"})
		return
	}

	now := time.Now()
	bug.IsResolved = false
	bug.ReopenedBy = &user
	bug.ReopenedAt = &now

	c.JSON(http.StatusOK, *bug)
}

// --------------------------------------------------------------- notes

func (s *Server) createNote(c *gin.Context) {
	user := caller(c)

	var body struct {
		Body string `json:"body"`
	}
	if err := c.BindJSON(&body); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bug := s.memberBug(c, user)
	if bug == nil {
		return
	}

	if strings.TrimSpace(body.Body) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "note body is required"})
		return
	}

	seqKey := bug.ProjectID + "/" + bug.ID
	s.noteSeq[seqKey]++

	now := time.Now()
	note := bugtrack.Note{
		ID:        s.noteSeq[seqKey],
		Body:      body.Body,
		Author:    user,
		CreatedAt: now,
		UpdatedAt: now,
	}

	bug.Notes = append(bug.Notes, note)
	c.JSON(http.StatusOK, note)
}

func (s *Server) updateNote(c *gin.Context) {
	user := caller(c)

	var body struct {
		Body string `json:"body"`
	}
	if err := c.BindJSON(&body); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bug := s.memberBug(c, user)
	if bug == nil {
		return
	}

	noteID, _ := strconv.Atoi(c.Param("noteID"))
	for i := range bug.Notes {
		if bug.Notes[i].ID != noteID {
			continue
		}

		if bug.Notes[i].Author.ID != user.ID {
			c.JSON(http.StatusForbidden, gin.H{"message": "only the author can edit a note"})
			return
		}

		now := time.Now()
		bug.Notes[i].Body = body.Body
		bug.Notes[i].UpdatedAt = now
		c.JSON(http.StatusOK, bug.Notes[i])
		return
	}

	c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("no note for id %d", noteID)})
}

func (s *Server) deleteNote(c *gin.Context) {
	user := caller(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	project := s.memberProject(c, user)
	if project == nil {
		return
	}
	bug := s.bugOf(c, project)
	if bug == nil {
		return
	}

	noteID, _ := strconv.Atoi(c.Param("noteID"))
	for i := range bug.Notes {
		if bug.Notes[i].ID != noteID {
			continue
		}

		author := bug.Notes[i].Author.ID == user.ID
		admin := project.CreatedBy.ID == user.ID
		if !author && !admin {
			c.JSON(http.StatusForbidden, gin.H{"message": "only the author or the admin can delete a note"})
			return
		}

		bug.Notes = append(bug.Notes[:i], bug.Notes[i+1:]...)
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("no note for id %d", noteID)})
}

// ------------------------------------------------------------- helpers
// All helpers below expect s.mu to be held and write the error
// response themselves when they answer nil.

func (s *Server) memberProject(c *gin.Context, user bugtrack.User) *bugtrack.Project {
	projectID := c.Param("projectID")
	for _, p := range s.projects {
		if p.ID != projectID {
			continue
		}
		if !p.HasMember(user.ID) {
			c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("no project for id %s", projectID)})
			return nil
		}
		return p
	}

	c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("no project for id %s", projectID)})
	return nil
}

func (s *Server) adminProject(c *gin.Context, user bugtrack.User) *bugtrack.Project {
	project := s.memberProject(c, user)
	if project == nil {
		return nil
	}

	if project.CreatedBy.ID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"message": fmt.Sprintf("you are not the admin of project %s", project.ID)})
		return nil
	}

	return project
}

func (s *Server) memberBug(c *gin.Context, user bugtrack.User) *bugtrack.Bug {
	project := s.memberProject(c, user)
	if project == nil {
		return nil
	}
	return s.bugOf(c, project)
}

func (s *Server) bugOf(c *gin.Context, project *bugtrack.Project) *bugtrack.Bug {
	bugID := c.Param("bugID")
	for _, b := range s.bugs[project.ID] {
		if b.ID == bugID {
			return b
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("no bug for id %s", bugID)})
	return nil
}

func (s *Server) userByID(id string) (bugtrack.User, bool) {
	for _, acc := range s.accounts {
		if acc.user.ID == id {
			return acc.user, true
		}
	}
	return bugtrack.User{}, false
}

func (s *Server) issueToken(userID string) string {
	token := fmt.Sprintf("mock-token-%s-%d", userID, len(s.tokens))
	s.tokens[token] = userID
	return token
}

func (s *Server) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s%d", prefix, s.seq)
}
