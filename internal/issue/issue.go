// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

const (
	ConfigLoadFailedId Id = iota + 1
	ConfigMissingSettingsId
	ArchiveUnreadableId
	AuditLogUnwritableId
	SSHServerStartFailedId
)

type (
	// Id identifies a catalog page.
	Id int

	// MarkdownMsg is the Markdown body of a page.
	MarkdownMsg string

	// Issue is one catalog page.
	Issue struct {
		id    Id
		mdMsg MarkdownMsg
	}
)

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load the configuration

archsh reads ` + "`config.toml`" + ` from, in order:
1. the file passed with ` + "`--config`" + `
2. the archsh config directory (` + "`archsh config path`" + ` prints it)
3. the current directory

## Things you can try
- Print a valid template and compare:
~~~
$ archsh config init --print
~~~
- Check the field named in the error; unknown keys are rejected.`,
	}

	configMissingSettingsIssue = &Issue{
		id: ConfigMissingSettingsId,
		mdMsg: `
# Required settings are missing

archsh needs four settings before it can start a session:

| key | meaning |
|---|---|
| username | user shown in the prompt and the audit log |
| hostname | host shown in the prompt |
| filesystem_path | archive holding the virtual filesystem |
| log_path | JSON-lines audit log, created if absent |

## Things you can try
- Create a configuration file:
~~~
$ archsh config init
~~~
- Or set them from the environment, e.g. ` + "`ARCHSH_USERNAME=alice`" + `.`,
	}

	archiveUnreadableIssue = &Issue{
		id: ArchiveUnreadableId,
		mdMsg: `
# The archive could not be read

The file at ` + "`filesystem_path`" + ` must be a tar, tar.gz, tar.zst or zip archive.

## Things you can try
- Verify the path and that the file is readable.
- List its members with ` + "`archsh index`" + `.
- Rebuild it, e.g. ` + "`tar -cf fs.tar Home`" + `.`,
	}

	auditLogUnwritableIssue = &Issue{
		id: AuditLogUnwritableId,
		mdMsg: `
# The audit log is not writable

Commands still run, but no audit records are kept.

## Things you can try
- Check that the directory of ` + "`log_path`" + ` exists.
- Check file permissions.`,
	}

	sshServerStartFailedIssue = &Issue{
		id: SSHServerStartFailedId,
		mdMsg: `
# The SSH server failed to start

## Things you can try
- Pick a free port with ` + "`--port`" + ` or ` + "`ssh.port`" + ` (0 selects one).
- Check that the host key path is writable.`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		configMissingSettingsIssue.Id(): configMissingSettingsIssue,
		archiveUnreadableIssue.Id():     archiveUnreadableIssue,
		auditLogUnwritableIssue.Id():    auditLogUnwritableIssue,
		sshServerStartFailedIssue.Id():  sshServerStartFailedIssue,
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the page with the glamour style at stylePath
// ("dark", "light", "notty" or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	out, err := render(strings.TrimSpace(string(i.mdMsg)), stylePath)
	if err != nil {
		return "", err
	}
	return out, nil
}

// Values returns every catalog page ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return int(a.id) - int(b.id)
	})
}

// Get returns the page for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
