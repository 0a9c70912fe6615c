package handler

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

type employeeForm struct {
	Code     string `form:"code" binding:"required,max=10"`
	Name     string `form:"name" binding:"required,max=20"`
	Password string `form:"password" binding:"omitempty,max=72"`
	Role     string `form:"role" binding:"required,oneof=GENERAL ADMIN"`
}

// 社員番号はパスから取得するため更新フォームには含めない。
type employeeUpdateForm struct {
	Name     string `form:"name" binding:"required,max=20"`
	Password string `form:"password" binding:"omitempty,max=72"`
	Role     string `form:"role" binding:"required,oneof=GENERAL ADMIN"`
}

type reportForm struct {
	ReportDate string `form:"reportDate" binding:"required,datetime=2006-01-02"`
	Title      string `form:"title" binding:"required,max=100"`
	Content    string `form:"content" binding:"required,max=600"`
}

type loginForm struct {
	Code     string `form:"code" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// fieldErrors はバインディングの検証エラーをフィールド名ごとのメッセージに変換します。
func fieldErrors(err error) (map[string]string, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = validationMessage(fe)
	}
	return out, true
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgBlank
	case "max":
		return fmt.Sprintf("%s文字以下で入力してください", fe.Param())
	case "oneof":
		return "選択肢から選んでください"
	case "datetime":
		return "日付の形式が正しくありません"
	default:
		return "入力内容に誤りがあります"
	}
}
