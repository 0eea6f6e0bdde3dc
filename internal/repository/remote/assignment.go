package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/apper-canvas/study-primary-pixel/internal/model"
	apperrors "github.com/apper-canvas/study-primary-pixel/pkg/errors"
)

type assignmentRepo struct {
	c *Client
}

func decodeAssignment(raw json.RawMessage) (model.Assignment, error) {
	var rec assignmentRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return model.Assignment{}, fmt.Errorf("解析作业记录失败: %w", err)
	}
	return rec.toModel(), nil
}

func (r *assignmentRepo) list(ctx context.Context, where []whereClause) []model.Assignment {
	rows, err := r.c.fetchAll(ctx, assignmentTable, assignmentFields, where)
	if err != nil {
		r.c.logger.Error("获取作业列表失败", zap.Error(err))
		return []model.Assignment{}
	}
	assignments := make([]model.Assignment, 0, len(rows))
	for _, raw := range rows {
		a, err := decodeAssignment(raw)
		if err != nil {
			r.c.logger.Warn("跳过无法解析的作业记录", zap.Error(err))
			continue
		}
		assignments = append(assignments, a)
	}
	return assignments
}

func (r *assignmentRepo) List(ctx context.Context) ([]model.Assignment, error) {
	return r.list(ctx, nil), nil
}

func (r *assignmentRepo) ListByCourse(ctx context.Context, courseID int) ([]model.Assignment, error) {
	where := []whereClause{{FieldName: "course_id_c", Operator: "EqualTo", Values: []any{courseID}}}
	return r.list(ctx, where), nil
}

func (r *assignmentRepo) GetByID(ctx context.Context, id int) (*model.Assignment, error) {
	raw, err := r.c.fetchOne(ctx, assignmentTable, id, assignmentFields)
	if err != nil {
		r.c.logger.Error("获取作业失败", zap.Int("id", id), zap.Error(err))
		return nil, gorm.ErrRecordNotFound
	}
	if raw == nil {
		return nil, gorm.ErrRecordNotFound
	}
	a, err := decodeAssignment(raw)
	if err != nil {
		r.c.logger.Error("获取作业失败", zap.Int("id", id), zap.Error(err))
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

func (r *assignmentRepo) Create(ctx context.Context, assignment *model.Assignment) error {
	raw, err := r.c.write(ctx, http.MethodPost, assignmentTable, newAssignmentCreate(assignment))
	if err != nil {
		r.c.logger.Error("创建作业失败", zap.String("title", assignment.Title), zap.Error(err))
		return fmt.Errorf("%w: %v", apperrors.ErrRemoteRejected, err)
	}
	if raw == nil {
		return fmt.Errorf("%w: 响应中缺少记录数据", apperrors.ErrRemoteRejected)
	}
	created, err := decodeAssignment(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrRemoteRejected, err)
	}
	*assignment = created
	return nil
}

func (r *assignmentRepo) save(ctx context.Context, a *model.Assignment) (*model.Assignment, error) {
	raw, err := r.c.write(ctx, http.MethodPut, assignmentTable, newAssignmentUpdate(a))
	if err != nil {
		r.c.logger.Error("更新作业失败", zap.Int("id", a.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRemoteRejected, err)
	}
	if raw == nil {
		return a, nil
	}
	updated, err := decodeAssignment(raw)
	if err != nil {
		return a, nil
	}
	return &updated, nil
}

func (r *assignmentRepo) Update(ctx context.Context, id int, patch model.AssignmentPatch) (*model.Assignment, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	current.Apply(patch)
	return r.save(ctx, current)
}

func (r *assignmentRepo) Delete(ctx context.Context, id int) (bool, error) {
	if err := r.c.remove(ctx, assignmentTable, id); err != nil {
		r.c.logger.Error("删除作业失败", zap.Int("id", id), zap.Error(err))
		return false, nil
	}
	return true, nil
}

func (r *assignmentRepo) ToggleComplete(ctx context.Context, id int) (*model.Assignment, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	current.Completed = !current.Completed
	return r.save(ctx, current)
}
