package listing

// Board markup is undocumented and changes without notice. Every field is read
// through its own ordered chain; update these lists when extraction degrades.

const (
	// ContainerSelector matches one block per employer.
	ContainerSelector = `div[data-company-id], div.company-jobs, div.directory-list > div.company`

	// JobRowSelector matches one row per open role inside a container. It is also
	// what the scroll loader counts.
	JobRowSelector = `div.job-row, [data-testid="job-row"], div.job`
)

var (
	companyNameSelectors = []string{
		`[data-testid="company-name"]`,
		`.company-name`,
		`.company-details a span.font-bold`,
		`h2`,
	}
	companyBatchSelectors = []string{
		`[data-testid="company-batch"]`,
		`.company-batch`,
		`span[class*="batch"]`,
	}
	companyDescriptionSelectors = []string{
		`[data-testid="company-description"]`,
		`.company-description`,
		`.company-details p`,
	}
	companyWebsiteSelectors = []string{
		`a[data-testid="company-website"]`,
		`a.company-website`,
	}
	companyTwitterSelectors = []string{
		`a[href*="twitter.com"]`,
		`a[href*="x.com/"]`,
	}
	companyLogoSelectors = []string{
		`img.company-logo`,
		`img[alt*="logo"]`,
		`img`,
	}
	companyDetailSelectors = []string{
		`[data-testid="company-details"] span`,
		`.company-details .detail`,
		`.company-tags span`,
	}
	companyPageSelectors = []string{
		`a[href*="/companies/"]`,
	}

	jobTitleSelectors = []string{
		`a.job-name`,
		`[data-testid="job-title"]`,
		`.job-title`,
		`a[href*="/jobs/"]`,
	}
	jobLinkSelectors = []string{
		`a.job-name[href]`,
		`a[href*="/jobs/"]`,
		`a[href*="/job/"]`,
	}
	viewJobSelectors = []string{
		`a.view-job`,
		`a:contains("View job")`,
		`a:contains("View Job")`,
	}
	jobMetadataSelectors = []string{
		`[data-testid="job-details"] span`,
		`.job-details span`,
		`.job-details > *`,
		`.job-meta span`,
	}

	// applySelectors match the apply affordance of a row or of a container with no rows.
	applySelectors = []string{
		`a.apply-button`,
		`a[href*="/application"]`,
		`a:contains("Apply")`,
		`button:contains("Apply")`,
	}

	// descriptionSelectors are tried in order on a job detail page; broader
	// containers come last.
	descriptionSelectors = []string{
		`.job-description`,
		`.job-description-content`,
		`[data-testid="job-description"]`,
		`div[itemprop="description"]`,
		`div[class*="description"]`,
		`div[class*="Description"]`,
		`section[class*="description"]`,
		`div.job-details`,
		`div.job-content`,
		`div.job-body`,
		`article.job`,
		`section.job`,
		`div[role="main"]`,
		`main`,
		`article`,
		`section`,
		`div.main-content`,
		`div.content`,
		`div#content`,
		`div#main`,
		`div.container`,
		`div#app`,
		`div#root`,
	}
)
