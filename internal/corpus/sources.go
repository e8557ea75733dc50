package corpus

// DefaultSources ADGM官方文档来源清单
// 覆盖公司设立、雇佣、数据保护、年度合规等监管类别
var DefaultSources = []Source{
	{
		Category: "Company Formation",
		DocType:  "General Incorporation",
		URL:      "https://www.adgm.com/registration-authority/registration-and-incorporation",
	},
	{
		Category: "Company Formation",
		DocType:  "Resolution",
		URL:      "https://assets.adgm.com/download/assets/adgm-ra-resolution-multiple-incorporate-shareholders-LTD-incorporation-v2.docx/186a12846c3911efa4e6c6223862cd87",
	},
	{
		Category: "Company Formation",
		DocType:  "Templates",
		URL:      "https://www.adgm.com/setting-up",
	},
	{
		Category: "Policy & Guidance",
		DocType:  "Templates",
		URL:      "https://www.adgm.com/legal-framework/guidance-and-policy-statements",
	},
	{
		Category: "Company Setup",
		DocType:  "Checklist",
		URL:      "https://www.adgm.com/documents/registration-authority/registration-and-incorporation/checklist/branch-non-financial-services-20231228.pdf",
	},
	{
		Category: "Company Setup",
		DocType:  "Private Company",
		URL:      "https://www.adgm.com/documents/registration-authority/registration-and-incorporation/checklist/private-company-limited-by-guarantee-non-financial-services-20231228.pdf",
	},
	{
		Category: "Employment",
		DocType:  "Contract 2024",
		URL:      "https://assets.adgm.com/download/assets/ADGM+Standard+Employment+Contract+Template+-+ER+2024+(Feb+2025).docx/ee14b252edbe11efa63b12b3a30e5e3a",
	},
	{
		Category: "Employment",
		DocType:  "Contract 2019",
		URL:      "https://assets.adgm.com/download/assets/ADGM+Standard+Employment+Contract+-+ER+2019+-+Short+Version+(May+2024).docx/33b57a92ecfe11ef97a536cc36767ef8",
	},
	{
		Category: "Data Protection",
		DocType:  "Policy",
		URL:      "https://www.adgm.com/documents/office-of-data-protection/templates/adgm-dpr-2021-appropriate-policy-document.pdf",
	},
	{
		Category: "Compliance",
		DocType:  "Annual Accounts",
		URL:      "https://www.adgm.com/operating-in-adgm/obligations-of-adgm-registered-entities/annual-filings/annual-accounts",
	},
	{
		Category: "Permits",
		DocType:  "Application",
		URL:      "https://www.adgm.com/operating-in-adgm/post-registration-services/letters-and-permits",
	},
	{
		Category: "Regulatory",
		DocType:  "Incorporation",
		URL:      "https://en.adgm.thomsonreuters.com/rulebook/7-company-incorporation-package",
	},
	{
		Category: "Regulatory",
		DocType:  "Shareholder Resolution",
		URL:      "https://assets.adgm.com/download/assets/Templates_SHReso_AmendmentArticles-v1-20220107.docx/97120d7c5af911efae4b1e183375c0b2?forcedownload=1",
	},
}
