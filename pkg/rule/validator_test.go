package rule_test

import (
	"testing"

	"github.com/yeisme/docvault/pkg/rule"
)

// uploadForm 模拟上传请求里需要校验的字段.
type uploadForm struct {
	Title    string `rule:"required"`
	DocType  string `rule:"omitempty,doc_type"`
	Category string `rule:"taxonomy_name"`
	Brand    string `rule:"taxonomy_name"`
}

// TestEngine 测试 Engine 函数返回非 nil 实例.
func TestEngine(t *testing.T) {
	if rule.Engine() == nil {
		t.Error("Engine() returned nil")
	}
}

// TestValidateStruct 测试领域别名规则对上传表单的校验.
func TestValidateStruct(t *testing.T) {
	valid := uploadForm{Title: "Split Inverter Manual", DocType: "manual", Category: "HVAC", Brand: "Daikin"}
	if err := rule.ValidateStruct(valid); err != nil {
		t.Errorf("expected no error for valid form, got %v", err)
	}

	// 遗留类型列只允许固定枚举
	badType := valid
	badType.DocType = "spreadsheet"

	if err := rule.ValidateStruct(badType); err == nil {
		t.Error("expected error for unknown doc type, got nil")
	}

	// 分类名不允许包含编码分隔符
	badCategory := valid
	badCategory.Category = "HVAC|Split"

	if err := rule.ValidateStruct(badCategory); err == nil {
		t.Error("expected error for category containing '|', got nil")
	}

	// 品牌名同样受限
	badBrand := valid
	badBrand.Brand = "Da|kin"

	if err := rule.ValidateStruct(badBrand); err == nil {
		t.Error("expected error for brand containing '|', got nil")
	}

	// 遗留类型列可缺省，落库时由 service 补默认值
	noType := valid
	noType.DocType = ""

	if err := rule.ValidateStruct(noType); err != nil {
		t.Errorf("expected no error for empty doc type, got %v", err)
	}
}

// TestTaxonomyNameAlias 别名必须能编译（分隔符以 0x7C 转义），且拦截
// 空名与含 '|' 的名字.
func TestTaxonomyNameAlias(t *testing.T) {
	if err := rule.ValidateVar("Linha Branca", "taxonomy_name"); err != nil {
		t.Errorf("expected no error for plain name, got %v", err)
	}

	if err := rule.ValidateVar("", "taxonomy_name"); err == nil {
		t.Error("expected error for empty name, got nil")
	}

	if err := rule.ValidateVar("HV|AC", "taxonomy_name"); err == nil {
		t.Error("expected error for name containing '|', got nil")
	}
}

// TestValidateVar 测试 ValidateVar 对变量的验证.
func TestValidateVar(t *testing.T) {
	if err := rule.ValidateVar("admin@example.com", "required,email"); err != nil {
		t.Errorf("expected no error for valid email, got %v", err)
	}

	if err := rule.ValidateVar("not-an-email", "required,email"); err == nil {
		t.Error("expected error for invalid email, got nil")
	}

	if err := rule.ValidateVar("catalog", "doc_type"); err != nil {
		t.Errorf("expected no error for doc_type catalog, got %v", err)
	}
}
