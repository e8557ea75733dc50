package analyzer

import (
	"strings"
)

// 已知的ADGM文档类型
const (
	TypeArticlesOfAssociation = "Articles of Association"
	TypeMemorandum            = "Memorandum of Association"
	TypeBoardResolution       = "Board Resolution"
	TypeShareholderResolution = "Shareholder Resolution"
	TypeEmploymentContract    = "Employment Contract"
	TypeUBODeclaration        = "UBO Declaration"
	TypeCompanyIncorporation  = "Company Incorporation"
	TypeRegisterOfMembers     = "Register of Members"
	TypeRegisterOfDirectors   = "Register of Directors"
	TypeDataProtectionPolicy  = "Data Protection Policy"
	TypeAnnualAccounts        = "Annual Accounts"
	TypeBranchRegistration    = "Branch Registration"
	TypeChecklist             = "Checklist"
	TypeUnknown               = "Unknown"
)

// 识别置信度档位
const (
	ConfidenceSignature = 0.9
	ConfidenceRAG       = 0.8
	ConfidenceKeyword   = 0.6
)

// signature 文档开头的特征短语到类型的映射
type signature struct {
	Marker  string
	DocType string
}

// documentSignatures 按优先级排列的特征短语表
// 匹配时在小写化的文档内容上做子串查找
var documentSignatures = []signature{
	{"articles of association of", TypeArticlesOfAssociation},
	{"memorandum of association", TypeMemorandum},
	{"we, the undersigned directors", TypeBoardResolution},
	{"resolution of the board of directors", TypeBoardResolution},
	{"resolution of the shareholders", TypeShareholderResolution},
	{"we, being the shareholders", TypeShareholderResolution},
	{"special resolution of the members", TypeShareholderResolution},
	{"employment contract", TypeEmploymentContract},
	{"contract of employment", TypeEmploymentContract},
	{"declaration of beneficial ownership", TypeUBODeclaration},
	{"ubo declaration form", TypeUBODeclaration},
	{"certificate of incorporation", TypeCompanyIncorporation},
	{"register of members of", TypeRegisterOfMembers},
	{"data protection policy", TypeDataProtectionPolicy},
	{"appropriate policy document", TypeDataProtectionPolicy},
	{"annual accounts for the financial year", TypeAnnualAccounts},
	{"branch registration application", TypeBranchRegistration},
	{"checklist – company set-up", TypeChecklist},
}

// ragTypeCandidates 知识库识别路径支持的文档类型
var ragTypeCandidates = []string{
	TypeArticlesOfAssociation,
	TypeMemorandum,
	TypeBoardResolution,
	TypeShareholderResolution,
	TypeEmploymentContract,
	TypeUBODeclaration,
	TypeDataProtectionPolicy,
	TypeRegisterOfMembers,
	TypeRegisterOfDirectors,
}

// identifyBySignature 通过特征短语识别文档类型
func identifyBySignature(content string) (string, bool) {
	lowered := strings.ToLower(content)
	for _, sig := range documentSignatures {
		if strings.Contains(lowered, sig.Marker) {
			return sig.DocType, true
		}
	}
	return "", false
}

// matchTypeCandidate 在知识库回答中匹配候选文档类型
// 先做精确子串匹配，再做按词的模糊匹配
func matchTypeCandidate(answer string) (string, bool) {
	lowered := strings.ToLower(answer)

	for _, candidate := range ragTypeCandidates {
		if strings.Contains(lowered, strings.ToLower(candidate)) {
			return candidate, true
		}
	}

	// 模糊匹配：候选类型的主要词几乎都出现在回答中即视为命中
	for _, candidate := range ragTypeCandidates {
		parts := strings.Fields(strings.ToLower(candidate))
		matched := 0
		for _, part := range parts {
			if len(part) > 3 && strings.Contains(lowered, part) {
				matched++
			}
		}
		if matched >= len(parts)-1 && matched > 0 {
			return candidate, true
		}
	}

	return "", false
}

// identifyByKeywords 通过文件名和内容关键词识别文档类型
// 作为特征短语和知识库识别都失败后的最后手段
func identifyByKeywords(fileName, content string) (string, bool) {
	name := strings.ToLower(fileName)
	text := strings.ToLower(content)

	switch {
	case strings.Contains(name, "article") || strings.Contains(text, "article"):
		return TypeArticlesOfAssociation, true
	case strings.Contains(name, "memorandum") || strings.Contains(text, "memorandum"):
		return TypeMemorandum, true
	case strings.Contains(name, "board") && strings.Contains(name, "resolution"):
		return TypeBoardResolution, true
	case strings.Contains(name, "shareholder") && strings.Contains(name, "resolution"):
		return TypeShareholderResolution, true
	case strings.Contains(name, "employment") || strings.Contains(name, "contract"):
		return TypeEmploymentContract, true
	case strings.Contains(name, "ubo") || strings.Contains(text, "beneficial owner"):
		return TypeUBODeclaration, true
	case strings.Contains(name, "data protection") || strings.Contains(text, "data protection"):
		return TypeDataProtectionPolicy, true
	}

	return "", false
}
