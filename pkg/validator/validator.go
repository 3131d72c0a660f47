package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	hexPattern        = regexp.MustCompile(`^(0[xX])?([0-9a-fA-F]{2})*$`)
	walletNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)
)

// Init 在 Gin 的校验引擎上注册自定义规则:
//   - hexdata: 偶数长度的十六进制，0x 前缀可选
//   - walletname: 不含路径分隔符的钱包名
func Init() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected gin validator engine")
	}
	return Register(v)
}

// Register 把自定义规则注册到 v 上
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("hexdata", func(fl validator.FieldLevel) bool {
		return hexPattern.MatchString(strings.TrimSpace(fl.Field().String()))
	}); err != nil {
		return err
	}
	return v.RegisterValidation("walletname", func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		return walletNamePattern.MatchString(name) && !strings.Contains(name, "..")
	})
}

// GetErrorMsg translates validation errors into user-friendly messages
func GetErrorMsg(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var errMsgs []string
		for _, e := range validationErrors {
			field := e.Field()
			tag := e.Tag()
			param := e.Param()

			switch tag {
			case "required":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 不能为空", field))
			case "min":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 长度至少为 %s", field, param))
			case "max":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 长度不能超过 %s", field, param))
			case "gte":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 不能小于 %s", field, param))
			case "oneof":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 必须是 [%s] 之一", field, param))
			case "hexdata":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 必须是十六进制字符串", field))
			case "walletname":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 不是合法的钱包名", field))
			default:
				errMsgs = append(errMsgs, fmt.Sprintf("%s 校验失败 (%s)", field, tag))
			}
		}
		return strings.Join(errMsgs, "; ")
	}
	return "请求参数错误"
}
