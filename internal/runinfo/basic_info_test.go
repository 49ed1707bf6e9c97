package runinfo

import "testing"

func TestFromEnvGitHubActions(t *testing.T) {
	clearKnownEnv(t)
	t.Setenv("GITHUB_ACTIONS", "true")
	t.Setenv("GITHUB_SERVER_URL", "https://github.com")
	t.Setenv("GITHUB_REPOSITORY", "banditlab/banditlab")
	t.Setenv("GITHUB_HEAD_REF", "feature/env-meta")
	t.Setenv("GITHUB_REF", "refs/pull/34/merge")
	t.Setenv("GITHUB_SHA", "deadbeef")
	t.Setenv("GITHUB_WORKFLOW", "CI")
	t.Setenv("GITHUB_JOB", "benchmark")
	t.Setenv("GITHUB_RUN_ID", "123456")
	t.Setenv("GITHUB_RUN_NUMBER", "42")
	t.Setenv("GITHUB_ACTOR", "banditlab-bot")

	info := FromEnv()
	if info == nil {
		t.Fatalf("expected run info")
	}
	if !info.CI {
		t.Fatalf("expected ci=true")
	}
	if info.Provider != "github_actions" {
		t.Fatalf("provider=%q", info.Provider)
	}
	if info.Repository != "banditlab/banditlab" {
		t.Fatalf("repository=%q", info.Repository)
	}
	if info.Branch != "feature/env-meta" {
		t.Fatalf("branch=%q", info.Branch)
	}
	if info.PullRequest != "34" {
		t.Fatalf("pull_request=%q", info.PullRequest)
	}
	if info.BuildURL != "https://github.com/banditlab/banditlab/actions/runs/123456" {
		t.Fatalf("build_url=%q", info.BuildURL)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	clearKnownEnv(t)
	t.Setenv("BANDITLAB_CI_PROVIDER", "manual")
	t.Setenv("BANDITLAB_CI_REPOSITORY", "banditlab/banditlab")
	t.Setenv("BANDITLAB_CI_BRANCH", "nightly")
	t.Setenv("BANDITLAB_CI_COMMIT", "abc123")
	t.Setenv("BANDITLAB_CI_WORKFLOW", "nightly-benchmarks")
	t.Setenv("BANDITLAB_CI_RUN_ID", "run-77")

	info := FromEnv()
	if info == nil {
		t.Fatalf("expected run info")
	}
	if !info.CI {
		t.Fatalf("expected ci=true when overrides are set")
	}
	if info.Provider != "manual" {
		t.Fatalf("provider=%q", info.Provider)
	}
	if info.Branch != "nightly" {
		t.Fatalf("branch=%q", info.Branch)
	}
	if info.RunID != "run-77" {
		t.Fatalf("run_id=%q", info.RunID)
	}
}

func TestFromEnvExplicitFalse(t *testing.T) {
	clearKnownEnv(t)
	t.Setenv("BANDITLAB_CI", "false")
	t.Setenv("BANDITLAB_CI_COMMIT", "abc123")

	info := FromEnv()
	if info == nil {
		t.Fatalf("expected run info for explicit metadata")
	}
	if info.CI {
		t.Fatalf("expected ci=false when BANDITLAB_CI=false")
	}
}

func TestFromEnvEmpty(t *testing.T) {
	clearKnownEnv(t)
	if info := FromEnv(); info != nil {
		t.Fatalf("expected nil run info, got %+v", *info)
	}
}

func clearKnownEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"CI",
		"GITHUB_ACTIONS",
		"GITHUB_SERVER_URL",
		"GITHUB_REPOSITORY",
		"GITHUB_REF",
		"GITHUB_REF_NAME",
		"GITHUB_HEAD_REF",
		"GITHUB_SHA",
		"GITHUB_WORKFLOW",
		"GITHUB_JOB",
		"GITHUB_RUN_ID",
		"GITHUB_RUN_NUMBER",
		"GITHUB_EVENT_NAME",
		"GITHUB_ACTOR",
		"BANDITLAB_CI",
		"BANDITLAB_CI_PROVIDER",
		"BANDITLAB_CI_REPOSITORY",
		"BANDITLAB_CI_BRANCH",
		"BANDITLAB_CI_COMMIT",
		"BANDITLAB_CI_WORKFLOW",
		"BANDITLAB_CI_JOB",
		"BANDITLAB_CI_RUN_ID",
		"BANDITLAB_CI_RUN_NUMBER",
		"BANDITLAB_CI_PULL_REQUEST",
		"BANDITLAB_CI_ACTOR",
		"BANDITLAB_CI_BUILD_URL",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}
