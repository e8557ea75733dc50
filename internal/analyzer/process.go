package analyzer

import (
	"regexp"
	"strings"
)

// 已知的ADGM监管流程
const (
	ProcessCompanyIncorporation      = "Company Incorporation"
	ProcessEmploymentSetup           = "Employment Setup"
	ProcessAnnualCompliance          = "Annual Compliance"
	ProcessCorporateGovernanceUpdate = "Corporate Governance Update"
	ProcessBranchEstablishment       = "Branch Establishment"
	ProcessDataProtectionCompliance  = "Data Protection Compliance"
	ProcessUnknown                   = "Unknown"
)

// ProcessRequirement 监管流程的文档要求
type ProcessRequirement struct {
	Description string   // 流程描述
	Required    []string // 必备文档类型
	Optional    []string // 可选文档类型
}

// processOrder 流程的固定遍历顺序，保证识别结果确定
var processOrder = []string{
	ProcessCompanyIncorporation,
	ProcessEmploymentSetup,
	ProcessAnnualCompliance,
	ProcessCorporateGovernanceUpdate,
	ProcessBranchEstablishment,
	ProcessDataProtectionCompliance,
}

// processRequirements 各流程的描述和文档要求
var processRequirements = map[string]ProcessRequirement{
	ProcessCompanyIncorporation: {
		Description: "Establishing a new company in ADGM",
		Required: []string{
			TypeArticlesOfAssociation,
			TypeMemorandum,
			TypeBoardResolution,
			TypeUBODeclaration,
		},
		Optional: []string{
			TypeShareholderResolution,
			TypeRegisterOfMembers,
		},
	},
	ProcessEmploymentSetup: {
		Description: "Establishing employment relationships in ADGM",
		Required:    []string{TypeEmploymentContract},
		Optional:    []string{TypeBoardResolution},
	},
	ProcessAnnualCompliance: {
		Description: "Annual filing and compliance requirements for ADGM companies",
		Required: []string{
			TypeAnnualAccounts,
			TypeRegisterOfMembers,
			TypeUBODeclaration,
		},
		Optional: []string{
			TypeBoardResolution,
			TypeShareholderResolution,
		},
	},
	ProcessCorporateGovernanceUpdate: {
		Description: "Updating corporate governance structures and procedures",
		Required: []string{
			TypeArticlesOfAssociation,
			TypeBoardResolution,
			TypeShareholderResolution,
		},
		Optional: []string{
			"Corporate Governance",
			TypeRegisterOfMembers,
		},
	},
	ProcessBranchEstablishment: {
		Description: "Establishing a branch of a foreign company in ADGM",
		Required: []string{
			TypeBranchRegistration,
			TypeBoardResolution,
		},
		Optional: []string{
			TypeEmploymentContract,
			TypeDataProtectionPolicy,
		},
	},
	ProcessDataProtectionCompliance: {
		Description: "Ensuring compliance with ADGM data protection regulations",
		Required:    []string{TypeDataProtectionPolicy},
		Optional: []string{
			TypeBoardResolution,
			TypeEmploymentContract,
		},
	},
}

// processIndicators 启发式识别用的文档类型指示词，按流程优先级排列
var processIndicators = []struct {
	Process    string
	Indicators []string
}{
	{ProcessCompanyIncorporation, []string{TypeArticlesOfAssociation, TypeMemorandum, "incorporation"}},
	{ProcessEmploymentSetup, []string{TypeEmploymentContract, "employment"}},
	{ProcessAnnualCompliance, []string{TypeAnnualAccounts, "annual"}},
	{ProcessCorporateGovernanceUpdate, []string{TypeBoardResolution, TypeShareholderResolution, "governance"}},
	{ProcessBranchEstablishment, []string{"Branch", "branch"}},
	{ProcessDataProtectionCompliance, []string{"Data Protection", "data protection"}},
}

// ragFallbackRequiredDocs 知识库回答中解析不出文档清单时的兜底要求
var ragFallbackRequiredDocs = map[string][]string{
	ProcessCompanyIncorporation: {
		TypeArticlesOfAssociation,
		TypeMemorandum,
		TypeBoardResolution,
		TypeUBODeclaration,
	},
	ProcessEmploymentSetup: {TypeEmploymentContract},
	ProcessAnnualCompliance: {
		TypeAnnualAccounts,
		TypeRegisterOfMembers,
		TypeUBODeclaration,
	},
}

// heuristicRequiredDocs 启发式路径使用的简化文档要求
var heuristicRequiredDocs = map[string][]string{
	ProcessCompanyIncorporation: {
		TypeArticlesOfAssociation,
		TypeMemorandum,
		TypeBoardResolution,
	},
	ProcessEmploymentSetup:           {TypeEmploymentContract},
	ProcessAnnualCompliance:          {TypeAnnualAccounts, TypeBoardResolution},
	ProcessCorporateGovernanceUpdate: {TypeBoardResolution, TypeShareholderResolution},
	ProcessBranchEstablishment:       {TypeBoardResolution},
	ProcessDataProtectionCompliance:  {TypeDataProtectionPolicy},
}

// requiredDocsRegex 从知识库回答中抽取必备文档清单
var requiredDocsRegex = regexp.MustCompile(`(?is)(?:required|necessary|essential|must have|needed)\s+documents?[:\s]+(.*?)(?:\n\n|\.\s+[A-Z])`)

// requiredDocsSplitRegex 文档清单的分隔符
var requiredDocsSplitRegex = regexp.MustCompile(`[\n,•-]+`)

// ProcessMatch 流程识别结果
type ProcessMatch struct {
	Process      string   // 识别出的流程名
	Description  string   // 流程描述
	RequiredDocs []string // 该流程的必备文档类型
	Confidence   float64  // 识别置信度
}

// matchProcessInAnswer 在知识库回答中查找流程名
func matchProcessInAnswer(answer string) (string, bool) {
	lowered := strings.ToLower(answer)
	for _, process := range processOrder {
		if strings.Contains(lowered, strings.ToLower(process)) {
			return process, true
		}
	}
	return "", false
}

// extractRequiredDocs 从知识库回答中解析必备文档清单
func extractRequiredDocs(answer string) []string {
	m := requiredDocsRegex.FindStringSubmatch(answer)
	if m == nil {
		return nil
	}

	var docs []string
	for _, item := range requiredDocsSplitRegex.Split(m[1], -1) {
		item = strings.TrimSpace(item)
		if len(item) > 5 {
			docs = append(docs, item)
		}
	}
	return docs
}

// ragProcessConfidence 计算知识库路径的识别置信度
// 已上传文档对必备清单的覆盖率越高，置信度越高
func ragProcessConfidence(required, uploaded []string) float64 {
	if len(required) == 0 {
		return 0.3
	}

	matched := 0
	for _, req := range required {
		if containsDocType(uploaded, req) {
			matched++
		}
	}

	confidence := float64(matched)/float64(len(required)) + 0.3
	if confidence > 0.9 {
		confidence = 0.9
	}
	return confidence
}

// IdentifyProcessHeuristic 基于文档类型指示词的流程识别
// 知识库不可用或回答无法解析时的回退路径
func IdentifyProcessHeuristic(docTypes []string) ProcessMatch {
	bestProcess := ""
	bestScore := 0

	for _, entry := range processIndicators {
		score := 0
		for _, docType := range docTypes {
			loweredType := strings.ToLower(docType)
			for _, indicator := range entry.Indicators {
				if strings.Contains(loweredType, strings.ToLower(indicator)) {
					score++
					break
				}
			}
		}

		// 取第一个严格最高分的流程
		if score > bestScore {
			bestScore = score
			bestProcess = entry.Process
		}
	}

	if bestScore == 0 {
		return ProcessMatch{Process: ProcessUnknown, Confidence: 0.0}
	}

	confidence := float64(bestScore) / float64(len(docTypes))
	if confidence > 0.7 {
		confidence = 0.7
	}

	return ProcessMatch{
		Process:      bestProcess,
		Description:  processRequirements[bestProcess].Description,
		RequiredDocs: heuristicRequiredDocs[bestProcess],
		Confidence:   confidence,
	}
}

// MissingDocuments 比对必备清单和已上传文档，返回缺失的文档类型
// 双向子串匹配（不区分大小写），容忍清单和识别结果的措辞差异
func MissingDocuments(required, uploaded []string) []string {
	var missing []string
	for _, req := range required {
		if !containsDocType(uploaded, req) {
			missing = append(missing, req)
		}
	}
	return missing
}

// containsDocType 检查文档类型列表中是否有与目标匹配的项
func containsDocType(docTypes []string, target string) bool {
	loweredTarget := strings.ToLower(target)
	for _, docType := range docTypes {
		loweredType := strings.ToLower(docType)
		if strings.Contains(loweredType, loweredTarget) || strings.Contains(loweredTarget, loweredType) {
			return true
		}
	}
	return false
}
