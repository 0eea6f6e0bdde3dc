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

type gradeRepo struct {
	c *Client
}

func decodeGrade(raw json.RawMessage) (model.Grade, error) {
	var rec gradeRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return model.Grade{}, fmt.Errorf("解析成绩记录失败: %w", err)
	}
	return rec.toModel(), nil
}

func (r *gradeRepo) list(ctx context.Context, where []whereClause) []model.Grade {
	rows, err := r.c.fetchAll(ctx, gradeTable, gradeFields, where)
	if err != nil {
		r.c.logger.Error("获取成绩记录失败", zap.Error(err))
		return []model.Grade{}
	}
	grades := make([]model.Grade, 0, len(rows))
	for _, raw := range rows {
		g, err := decodeGrade(raw)
		if err != nil {
			r.c.logger.Warn("跳过无法解析的成绩记录", zap.Error(err))
			continue
		}
		grades = append(grades, g)
	}
	return grades
}

func (r *gradeRepo) List(ctx context.Context) ([]model.Grade, error) {
	return r.list(ctx, nil), nil
}

func (r *gradeRepo) ListByCourse(ctx context.Context, courseID int) ([]model.Grade, error) {
	where := []whereClause{{FieldName: "course_id_c", Operator: "EqualTo", Values: []any{courseID}}}
	return r.list(ctx, where), nil
}

func (r *gradeRepo) GetByAssignment(ctx context.Context, assignmentID int) (*model.Grade, error) {
	where := []whereClause{{FieldName: "assignment_id_c", Operator: "EqualTo", Values: []any{assignmentID}}}
	grades := r.list(ctx, where)
	if len(grades) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &grades[0], nil
}

func (r *gradeRepo) Create(ctx context.Context, grade *model.Grade) error {
	w := newGradeWrite(grade)
	w.ID = 0
	raw, err := r.c.write(ctx, http.MethodPost, gradeTable, w)
	if err != nil {
		r.c.logger.Error("创建成绩记录失败", zap.Int("assignment_id", grade.AssignmentID), zap.Error(err))
		return fmt.Errorf("%w: %v", apperrors.ErrRemoteRejected, err)
	}
	if raw == nil {
		return fmt.Errorf("%w: 响应中缺少记录数据", apperrors.ErrRemoteRejected)
	}
	created, err := decodeGrade(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrRemoteRejected, err)
	}
	*grade = created
	return nil
}

func (r *gradeRepo) Update(ctx context.Context, id int, patch model.GradePatch) (*model.Grade, error) {
	raw, err := r.c.fetchOne(ctx, gradeTable, id, gradeFields)
	if err != nil || raw == nil {
		if err != nil {
			r.c.logger.Error("获取成绩记录失败", zap.Int("id", id), zap.Error(err))
		}
		return nil, gorm.ErrRecordNotFound
	}
	current, err := decodeGrade(raw)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	current.Apply(patch)

	out, err := r.c.write(ctx, http.MethodPut, gradeTable, newGradeWrite(&current))
	if err != nil {
		r.c.logger.Error("更新成绩记录失败", zap.Int("id", id), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRemoteRejected, err)
	}
	if out != nil {
		if updated, err := decodeGrade(out); err == nil {
			return &updated, nil
		}
	}
	return &current, nil
}
