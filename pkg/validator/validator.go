// Package validator wires custom validation rules into gin's binding engine.
// Package validator 为 gin 的绑定引擎注册自定义校验规则
package validator

import (
	"encoding/hex"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	val "github.com/go-playground/validator/v10"
)

// CustomValidator replaces gin's default StructValidator so that custom tags
// are available on request structs.
type CustomValidator struct {
	once     sync.Once
	validate *val.Validate
}

var _ binding.StructValidator = (*CustomValidator)(nil)

func NewCustomValidator() *CustomValidator {
	return &CustomValidator{}
}

func (v *CustomValidator) ValidateStruct(obj interface{}) error {
	if obj == nil {
		return nil
	}
	v.lazyInit()
	return v.validate.Struct(obj)
}

func (v *CustomValidator) Engine() interface{} {
	v.lazyInit()
	return v.validate
}

func (v *CustomValidator) lazyInit() {
	v.once.Do(func() {
		v.validate = val.New()
		v.validate.SetTagName("binding")
		registerCustom(v.validate)
	})
}

// registerCustom adds the domain rules used by request structs.
func registerCustom(v *val.Validate) {
	// hexpubkey: 64 lowercase hex chars, the canonical public key form.
	// hexpubkey: 64 位小写十六进制公钥
	_ = v.RegisterValidation("hexpubkey", func(fl val.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) != 64 || s != strings.ToLower(s) {
			return false
		}
		_, err := hex.DecodeString(s)
		return err == nil
	})
}
