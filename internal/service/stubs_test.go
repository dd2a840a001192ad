package service

import (
	"sync"

	"gorm.io/gorm"

	"rollcall-backend/internal/model"
	"rollcall-backend/internal/repository"
)

// In-memory repository stubs backing the service tests.

type stubTrainingRepo struct {
	trainings map[uint]*model.Training
	getErr    error
}

func newStubTrainingRepo(trainings ...*model.Training) *stubTrainingRepo {
	r := &stubTrainingRepo{trainings: make(map[uint]*model.Training)}
	for _, t := range trainings {
		r.trainings[t.ID] = t
	}
	return r
}

func (r *stubTrainingRepo) Create(t *model.Training) error {
	if t.ID == 0 {
		t.ID = uint(len(r.trainings) + 1)
	}
	r.trainings[t.ID] = t
	return nil
}

func (r *stubTrainingRepo) GetAll(status string) ([]model.Training, error) {
	var out []model.Training
	for _, t := range r.trainings {
		if status == "" || t.Status == status {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *stubTrainingRepo) GetOpen() ([]model.Training, error) {
	var out []model.Training
	for _, t := range r.trainings {
		if t.IsOpen() {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *stubTrainingRepo) GetByID(id uint) (*model.Training, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	t, found := r.trainings[id]
	if !found {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *stubTrainingRepo) GetByAccessCode(code string) (*model.Training, error) {
	for _, t := range r.trainings {
		if t.AccessCode == code {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubTrainingRepo) AccessCodeExists(code string) (bool, error) {
	_, err := r.GetByAccessCode(code)
	return err == nil, nil
}

func (r *stubTrainingRepo) Save(t *model.Training) error {
	r.trainings[t.ID] = t
	return nil
}

func (r *stubTrainingRepo) Delete(id uint) error {
	delete(r.trainings, id)
	return nil
}

func (r *stubTrainingRepo) CountActive() (int64, error) {
	var n int64
	for _, t := range r.trainings {
		if t.Status == model.TrainingActive {
			n++
		}
	}
	return n, nil
}

type stubResponseRepo struct {
	byUUID    map[string]*model.SurveyResponse
	createErr error
	saved     int
}

func newStubResponseRepo(responses ...*model.SurveyResponse) *stubResponseRepo {
	r := &stubResponseRepo{byUUID: make(map[string]*model.SurveyResponse)}
	for _, resp := range responses {
		r.byUUID[resp.UUID] = resp
	}
	return r
}

func (r *stubResponseRepo) Create(resp *model.SurveyResponse) error {
	if r.createErr != nil {
		return r.createErr
	}
	if resp.ID == 0 {
		resp.ID = uint(len(r.byUUID) + 1)
	}
	r.byUUID[resp.UUID] = resp
	return nil
}

func (r *stubResponseRepo) GetByID(id uint) (*model.SurveyResponse, error) {
	for _, resp := range r.byUUID {
		if resp.ID == id {
			return resp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubResponseRepo) GetByUUID(uuid string) (*model.SurveyResponse, error) {
	resp, found := r.byUUID[uuid]
	if !found {
		return nil, gorm.ErrRecordNotFound
	}
	return resp, nil
}

func (r *stubResponseRepo) GetByUUIDAndTraining(uuid string, trainingID uint) (*model.SurveyResponse, error) {
	resp, found := r.byUUID[uuid]
	if !found || resp.TrainingID != trainingID {
		return nil, gorm.ErrRecordNotFound
	}
	return resp, nil
}

func (r *stubResponseRepo) FindByNameInOpenTrainings(name string) ([]model.SurveyResponse, error) {
	var out []model.SurveyResponse
	for _, resp := range r.byUUID {
		if resp.Name == name {
			out = append(out, *resp)
		}
	}
	return out, nil
}

func (r *stubResponseRepo) Search(f repository.ResponseFilter) ([]model.SurveyResponse, int64, error) {
	var out []model.SurveyResponse
	for _, resp := range r.byUUID {
		if f.TrainingID != 0 && resp.TrainingID != f.TrainingID {
			continue
		}
		out = append(out, *resp)
	}
	return out, int64(len(out)), nil
}

func (r *stubResponseRepo) Save(resp *model.SurveyResponse) error {
	r.byUUID[resp.UUID] = resp
	r.saved++
	return nil
}

func (r *stubResponseRepo) Delete(id uint) error {
	for uuid, resp := range r.byUUID {
		if resp.ID == id {
			delete(r.byUUID, uuid)
		}
	}
	return nil
}

func (r *stubResponseRepo) UpdateLocked(uuid string, trainingID uint, fn func(resp *model.SurveyResponse) (bool, error)) (*model.SurveyResponse, error) {
	resp, found := r.byUUID[uuid]
	if !found || (trainingID > 0 && resp.TrainingID != trainingID) {
		return nil, gorm.ErrRecordNotFound
	}
	save, err := fn(resp)
	if err != nil {
		return nil, err
	}
	if save {
		r.saved++
	}
	return resp, nil
}

// lockingResponseRepo mirrors the transactional semantics of the real
// UpdateLocked: the callback works on an independent row image under a
// mutex and the canonical row only changes when the callback reports a
// mutation. beforeLock runs once before the lock is taken, which lets a
// test commit a competing transition in that window.
type lockingResponseRepo struct {
	*stubResponseRepo
	mu         sync.Mutex
	beforeLock func()
}

func newLockingResponseRepo(responses ...*model.SurveyResponse) *lockingResponseRepo {
	return &lockingResponseRepo{stubResponseRepo: newStubResponseRepo(responses...)}
}

func (r *lockingResponseRepo) UpdateLocked(uuid string, trainingID uint, fn func(resp *model.SurveyResponse) (bool, error)) (*model.SurveyResponse, error) {
	if hook := r.beforeLock; hook != nil {
		// Clear before invoking: the hook itself may call UpdateLocked,
		// and a re-entrant sync.Once.Do would deadlock.
		r.beforeLock = nil
		hook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, found := r.byUUID[uuid]
	if !found || (trainingID > 0 && stored.TrainingID != trainingID) {
		return nil, gorm.ErrRecordNotFound
	}
	row := *stored
	mutated, err := fn(&row)
	if err != nil {
		return nil, err
	}
	if mutated {
		*stored = row
		r.saved++
	}
	return &row, nil
}

func (r *stubResponseRepo) TodayStats() (*repository.DashboardStats, error) {
	return &repository.DashboardStats{}, nil
}

func (r *stubResponseRepo) TrainingStats(trainingID uint) (map[string]int64, error) {
	return map[string]int64{}, nil
}

type stubQuestionRepo struct {
	questions []model.Question
}

func (r *stubQuestionRepo) GetAllOrdered() ([]model.Question, error) {
	return r.questions, nil
}

func (r *stubQuestionRepo) GetActiveOrdered() ([]model.Question, error) {
	var out []model.Question
	for _, q := range r.questions {
		if q.IsActive {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *stubQuestionRepo) GetByID(id uint) (*model.Question, error) {
	for i := range r.questions {
		if r.questions[i].ID == id {
			return &r.questions[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubQuestionRepo) Create(q *model.Question) error {
	if q.ID == 0 {
		q.ID = uint(len(r.questions) + 1)
	}
	r.questions = append(r.questions, *q)
	return nil
}

func (r *stubQuestionRepo) Save(q *model.Question) error {
	for i := range r.questions {
		if r.questions[i].ID == q.ID {
			r.questions[i] = *q
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubQuestionRepo) Delete(id uint) error {
	for i := range r.questions {
		if r.questions[i].ID == id {
			r.questions = append(r.questions[:i], r.questions[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *stubQuestionRepo) MaxOrderNum() (int, error) {
	max := 0
	for _, q := range r.questions {
		if q.OrderNum > max {
			max = q.OrderNum
		}
	}
	return max, nil
}

func (r *stubQuestionRepo) UpdateOrderNum(id uint, orderNum int) error {
	for i := range r.questions {
		if r.questions[i].ID == id {
			r.questions[i].OrderNum = orderNum
		}
	}
	return nil
}

type stubSettingRepo struct {
	mu       sync.Mutex
	settings map[string]*model.Setting
	reads    int
}

func newStubSettingRepo(settings ...*model.Setting) *stubSettingRepo {
	r := &stubSettingRepo{settings: make(map[string]*model.Setting)}
	for _, s := range settings {
		r.settings[s.Key] = s
	}
	return r
}

func (r *stubSettingRepo) GetByKey(key string) (*model.Setting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	s, found := r.settings[key]
	if !found {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSettingRepo) GetAll() ([]model.Setting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Setting
	for _, s := range r.settings {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSettingRepo) Upsert(s *model.Setting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings[s.Key] = s
	return nil
}
