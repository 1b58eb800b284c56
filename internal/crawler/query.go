package crawler

// rateLimitQuery is a zero-cost dry-run query used only to read a
// credential's current quota, by QuotaProber (quota.go), which
// internal/creds calls to prime and refresh its pool.
const rateLimitQuery = `
query {
  rateLimit(dryRun: true) {
    limit
    cost
    remaining
    resetAt
  }
}
`

// repositoryQuery fetches the repository metadata fields the document
// store persists, plus the caller's current rate-limit status in the same
// round trip.
const repositoryQuery = `
query GetRepo($owner: String!, $name: String!) {
  repository(owner: $owner, name: $name) {
    id
    name
    owner {
      login
    }
    homepageUrl
    createdAt
    updatedAt
    pushedAt
    description
    diskUsage
    forkCount
    hasWikiEnabled
    hasIssuesEnabled
    hasProjectsEnabled
    isFork
    isArchived
    isDisabled
    isEmpty
    isLocked
    isMirror
    isPrivate
    isTemplate
    mergeCommitAllowed
    watchers(first: 1) {
      totalCount
    }
    stargazers(first: 1) {
      totalCount
    }
    commitComments(first: 1) {
      totalCount
    }
    pullRequests {
      totalCount
    }
    releases(first: 1) {
      totalCount
    }
    primaryLanguage {
      name
    }
    languages(first: 100) {
      totalCount
      nodes {
        name
      }
    }
    labels(first: 1) {
      totalCount
    }
    licenseInfo {
      name
      nickname
    }
    deployments {
      totalCount
    }
    repositoryTopics(first: 100) {
      totalCount
      nodes {
        topic {
          name
        }
      }
    }
  }
  rateLimit {
    limit
    cost
    remaining
    resetAt
  }
}
`
