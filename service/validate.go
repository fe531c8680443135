package service

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"baby-namer/config"
	apierrors "baby-namer/errors"
	"baby-namer/model"
)

// ValidationError 请求参数错误，Code 对应 errors 包中的 4xxxx 错误码
type ValidationError struct {
	Code    int
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (%d): %s", e.Code, e.Message)
}

type validatedRequest struct {
	scope    model.Gender
	count    int
	birth    time.Time
	hasBirth bool
}

func validateRequest(req *model.NameRequest, cfg config.GenerationConfig) (validatedRequest, error) {
	var v validatedRequest

	if strings.TrimSpace(req.FatherName) == "" || strings.TrimSpace(req.MotherName) == "" {
		return v, &ValidationError{Code: apierrors.ErrMissingParents, Message: "请填写完整的父母姓名"}
	}

	v.scope = req.Scope()
	if v.scope == "" {
		return v, &ValidationError{Code: apierrors.ErrInvalidGender, Message: "请至少选择一个宝宝性别"}
	}

	if s := strings.TrimSpace(req.BirthDate); s != "" {
		birth, err := parseBirthDate(s)
		if err != nil {
			return v, &ValidationError{Code: apierrors.ErrInvalidBirthDate, Message: "出生日期格式不正确"}
		}
		v.birth, v.hasBirth = birth, true
	}

	if limit := cfg.CustomExpectationMaxRunes; limit > 0 && utf8.RuneCountInString(req.Preferences.Expectation()) > limit {
		return v, &ValidationError{
			Code:    apierrors.ErrExpectationTooLong,
			Message: fmt.Sprintf("特别期望不能超过%d个字", limit),
		}
	}

	v.count = req.NameCount
	if v.count == 0 {
		v.count = cfg.DefaultNameCount
	}
	if v.count < 1 || (cfg.MaxNameCount > 0 && v.count > cfg.MaxNameCount) {
		return v, &ValidationError{
			Code:    apierrors.ErrNameCountOutOfRange,
			Message: fmt.Sprintf("名字数量需在1到%d之间", cfg.MaxNameCount),
		}
	}
	return v, nil
}

// parseBirthDate 支持 2024-02-04，兼容前端传来的 RFC3339 时间
func parseBirthDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}
