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

type courseRepo struct {
	c *Client
}

func (r *courseRepo) decode(raw json.RawMessage) (model.Course, error) {
	var rec courseRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return model.Course{}, fmt.Errorf("解析课程记录失败: %w", err)
	}
	course, err := rec.toModel()
	if err != nil {
		r.c.logger.Warn("课程课表字段无效，按空课表处理",
			zap.Int("course_id", rec.ID), zap.Error(err))
	}
	return course, nil
}

func (r *courseRepo) List(ctx context.Context) ([]model.Course, error) {
	rows, err := r.c.fetchAll(ctx, courseTable, courseFields, nil)
	if err != nil {
		r.c.logger.Error("获取课程列表失败", zap.Error(err))
		return []model.Course{}, nil
	}
	courses := make([]model.Course, 0, len(rows))
	for _, raw := range rows {
		course, err := r.decode(raw)
		if err != nil {
			r.c.logger.Warn("跳过无法解析的课程记录", zap.Error(err))
			continue
		}
		courses = append(courses, course)
	}
	return courses, nil
}

func (r *courseRepo) GetByID(ctx context.Context, id int) (*model.Course, error) {
	raw, err := r.c.fetchOne(ctx, courseTable, id, courseFields)
	if err != nil {
		r.c.logger.Error("获取课程失败", zap.Int("id", id), zap.Error(err))
		return nil, gorm.ErrRecordNotFound
	}
	if raw == nil {
		return nil, gorm.ErrRecordNotFound
	}
	course, err := r.decode(raw)
	if err != nil {
		r.c.logger.Error("获取课程失败", zap.Int("id", id), zap.Error(err))
		return nil, gorm.ErrRecordNotFound
	}
	return &course, nil
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	raw, err := r.c.write(ctx, http.MethodPost, courseTable, newCourseCreate(course))
	if err != nil {
		r.c.logger.Error("创建课程失败", zap.String("name", course.Name), zap.Error(err))
		return fmt.Errorf("%w: %v", apperrors.ErrRemoteRejected, err)
	}
	if raw == nil {
		return fmt.Errorf("%w: 响应中缺少记录数据", apperrors.ErrRemoteRejected)
	}
	created, err := r.decode(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrRemoteRejected, err)
	}
	*course = created
	return nil
}

func (r *courseRepo) Update(ctx context.Context, id int, patch model.CoursePatch) (*model.Course, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	current.Apply(patch)

	raw, err := r.c.write(ctx, http.MethodPut, courseTable, newCourseUpdate(current))
	if err != nil {
		r.c.logger.Error("更新课程失败", zap.Int("id", id), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRemoteRejected, err)
	}
	if raw == nil {
		return current, nil
	}
	updated, err := r.decode(raw)
	if err != nil {
		return current, nil
	}
	return &updated, nil
}

func (r *courseRepo) Delete(ctx context.Context, id int) (bool, error) {
	if err := r.c.remove(ctx, courseTable, id); err != nil {
		r.c.logger.Error("删除课程失败", zap.Int("id", id), zap.Error(err))
		return false, nil
	}
	return true, nil
}
