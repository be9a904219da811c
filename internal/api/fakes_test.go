package api_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/classtrack/classtrack/internal/models"
	"github.com/classtrack/classtrack/internal/repository"
)

// In-memory repository fakes. They implement the same contracts as the
// postgres stores: nil, nil on missing rows, empty slices on empty lists,
// and classroom Delete cascading to tasks and messages by code.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, name, nickname, email, passwordHash, role, avatar string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := &models.User{
		ID:           uuid.New(),
		Name:         name,
		Nickname:     nickname,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		Avatar:       avatar,
		CreatedAt:    time.Now(),
	}
	f.users[u.ID] = u
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, userID uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, userID uuid.UUID, name, nickname, avatar string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, nil
	}
	u.Name = name
	u.Nickname = nickname
	if avatar != "" {
		u.Avatar = avatar
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) UpdateEmail(_ context.Context, userID uuid.UUID, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, nil
	}
	u.Email = email
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[userID]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (f *fakeUserRepo) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.users)), nil
}

type fakeClassroomRepo struct {
	mu         sync.Mutex
	classrooms map[string]*models.Classroom
	users      *fakeUserRepo
	tasks      *fakeTaskRepo
	messages   *fakeMessageRepo
}

func newFakeClassroomRepo(users *fakeUserRepo, tasks *fakeTaskRepo, messages *fakeMessageRepo) *fakeClassroomRepo {
	return &fakeClassroomRepo{
		classrooms: make(map[string]*models.Classroom),
		users:      users,
		tasks:      tasks,
		messages:   messages,
	}
}

func (f *fakeClassroomRepo) Create(_ context.Context, code, name, password string, createdBy uuid.UUID) (*models.Classroom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cr := &models.Classroom{
		ID:        uuid.New(),
		Code:      code,
		Name:      name,
		Password:  password,
		CreatedBy: createdBy,
		Members:   []uuid.UUID{createdBy},
		CreatedAt: time.Now(),
	}
	f.classrooms[code] = cr
	return copyClassroom(cr), nil
}

func copyClassroom(cr *models.Classroom) *models.Classroom {
	copied := *cr
	copied.Members = append([]uuid.UUID(nil), cr.Members...)
	return &copied
}

func (f *fakeClassroomRepo) GetByCode(_ context.Context, code string) (*models.Classroom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cr, ok := f.classrooms[code]
	if !ok {
		return nil, nil
	}
	return copyClassroom(cr), nil
}

func (f *fakeClassroomRepo) ListForUser(_ context.Context, userID uuid.UUID) ([]models.Classroom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Classroom, 0)
	for _, cr := range f.classrooms {
		for _, m := range cr.Members {
			if m == userID {
				out = append(out, *copyClassroom(cr))
				break
			}
		}
	}
	return out, nil
}

func (f *fakeClassroomRepo) AddMember(_ context.Context, classroomID uuid.UUID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, cr := range f.classrooms {
		if cr.ID == classroomID {
			cr.Members = append(cr.Members, userID)
		}
	}
	return nil
}

func (f *fakeClassroomRepo) RemoveMember(_ context.Context, classroomID uuid.UUID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, cr := range f.classrooms {
		if cr.ID == classroomID {
			kept := cr.Members[:0]
			for _, m := range cr.Members {
				if m != userID {
					kept = append(kept, m)
				}
			}
			cr.Members = kept
		}
	}
	return nil
}

func (f *fakeClassroomRepo) ListMembers(_ context.Context, classroomID uuid.UUID) ([]models.User, error) {
	f.mu.Lock()
	var memberIDs []uuid.UUID
	for _, cr := range f.classrooms {
		if cr.ID == classroomID {
			memberIDs = append([]uuid.UUID(nil), cr.Members...)
		}
	}
	f.mu.Unlock()

	out := make([]models.User, 0, len(memberIDs))
	for _, id := range memberIDs {
		u, _ := f.users.GetByID(context.Background(), id)
		if u != nil {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeClassroomRepo) Delete(_ context.Context, classroomID uuid.UUID, code string) error {
	f.mu.Lock()
	delete(f.classrooms, code)
	f.mu.Unlock()

	f.tasks.deleteByClassroom(code)
	f.messages.deleteByClassroom(code)
	return nil
}

func (f *fakeClassroomRepo) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.classrooms)), nil
}

type fakeTaskRepo struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*models.Task
	users *fakeUserRepo
}

func newFakeTaskRepo(users *fakeUserRepo) *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[uuid.UUID]*models.Task), users: users}
}

func (f *fakeTaskRepo) withCreator(t *models.Task) *models.Task {
	copied := *t
	if u, _ := f.users.GetByID(context.Background(), t.CreatedBy); u != nil {
		summary := u.Summary()
		copied.Creator = &summary
	}
	return &copied
}

func (f *fakeTaskRepo) Create(_ context.Context, task *models.Task) (*models.Task, error) {
	f.mu.Lock()
	stored := *task
	stored.ID = uuid.New()
	f.tasks[stored.ID] = &stored
	f.mu.Unlock()
	return f.withCreator(&stored), nil
}

func (f *fakeTaskRepo) GetByID(_ context.Context, taskID uuid.UUID) (*models.Task, error) {
	f.mu.Lock()
	t, ok := f.tasks[taskID]
	f.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return f.withCreator(t), nil
}

func (f *fakeTaskRepo) ListByClassroom(_ context.Context, code string) ([]models.Task, error) {
	f.mu.Lock()
	var matched []*models.Task
	for _, t := range f.tasks {
		if t.ClassroomCode == code {
			matched = append(matched, t)
		}
	}
	f.mu.Unlock()

	out := make([]models.Task, 0, len(matched))
	for _, t := range matched {
		out = append(out, *f.withCreator(t))
	}
	return out, nil
}

func (f *fakeTaskRepo) Update(_ context.Context, taskID uuid.UUID, patch repository.TaskPatch) (*models.Task, error) {
	f.mu.Lock()
	t, ok := f.tasks[taskID]
	if ok {
		if patch.Name != nil {
			t.Name = *patch.Name
		}
		if patch.Description != nil {
			t.Description = *patch.Description
		}
		if patch.Subject != nil {
			t.Subject = *patch.Subject
		}
		if patch.DateAssigned != nil {
			t.DateAssigned = patch.DateAssigned
		}
		if patch.DueDate != nil {
			t.DueDate = patch.DueDate
		}
		if patch.Completed != nil {
			t.Completed = *patch.Completed
		}
	}
	f.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return f.withCreator(t), nil
}

func (f *fakeTaskRepo) Delete(_ context.Context, taskID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tasks, taskID)
	return nil
}

func (f *fakeTaskRepo) deleteByClassroom(code string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, t := range f.tasks {
		if t.ClassroomCode == code {
			delete(f.tasks, id)
		}
	}
}

func (f *fakeTaskRepo) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.tasks)), nil
}

type fakeMessageRepo struct {
	mu     sync.Mutex
	nextID int64
	msgs   []models.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func (f *fakeMessageRepo) Create(_ context.Context, code, author, content string) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	msg := models.Message{
		ID:            f.nextID,
		ClassroomCode: code,
		Author:        author,
		Content:       content,
		Timestamp:     time.Now(),
	}
	f.msgs = append(f.msgs, msg)
	return &msg, nil
}

func (f *fakeMessageRepo) ListByClassroom(_ context.Context, code string) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Message, 0)
	for _, m := range f.msgs {
		if m.ClassroomCode == code {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) deleteByClassroom(code string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.msgs[:0]
	for _, m := range f.msgs {
		if m.ClassroomCode != code {
			kept = append(kept, m)
		}
	}
	f.msgs = kept
}

func (f *fakeMessageRepo) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.msgs)), nil
}
