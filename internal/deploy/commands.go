package deploy

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/marcwilhelm/wpship/internal/config"
)

// Archive names inside a backup staging directory.
const (
	filesArchiveName    = "files.tar.gz"
	databaseArchiveName = "database.sql.gz"
)

// sshArgs returns the options shared by every ssh invocation. BatchMode
// keeps a missing key from degenerating into a password prompt that would
// hang the run.
func sshArgs(cfg config.Config) []string {
	return []string{"-p", strconv.Itoa(cfg.Remote.Port), "-o", "BatchMode=yes"}
}

// sshCommand wraps remoteCmd in an ssh invocation. The remote command is
// passed as a single argument so the remote shell sees it exactly as built.
func sshCommand(cfg config.Config, remoteCmd string) string {
	args := append([]string{"ssh"}, sshArgs(cfg)...)
	args = append(args, cfg.Target(), remoteCmd)
	return shellquote.Join(args...)
}

// probeCommand is the reachability no-op: a plain ssh that runs true and
// exits. ConnectTimeout bounds the connect phase so a dead host fails fast.
func probeCommand(cfg config.Config) string {
	// OpenSSH reads ConnectTimeout=0 as the system TCP default, so a
	// sub-second probe timeout rounds up rather than down to zero.
	secs := max(1, int(cfg.Timeouts.Probe.Seconds()))
	args := append([]string{"ssh"}, sshArgs(cfg)...)
	args = append(args,
		"-o", fmt.Sprintf("ConnectTimeout=%d", secs),
		cfg.Target(), "true")
	return shellquote.Join(args...)
}

// scpToRemote copies a local file onto the remote host.
func scpToRemote(cfg config.Config, localPath, remotePath string) string {
	return shellquote.Join("scp", "-P", strconv.Itoa(cfg.Remote.Port), "-o", "BatchMode=yes",
		localPath, cfg.Target()+":"+remotePath)
}

// scpFromRemote copies remote files into a local directory.
func scpFromRemote(cfg config.Config, remotePath, localPath string) string {
	return shellquote.Join("scp", "-P", strconv.Itoa(cfg.Remote.Port), "-o", "BatchMode=yes",
		cfg.Target()+":"+remotePath, localPath)
}

// rsyncCommand mirrors the local WordPress tree into the remote root. The
// trailing slash on the source transfers its contents rather than the
// directory itself. --partial and --inplace let an interrupted transfer
// resume where it stopped instead of starting over.
func rsyncCommand(cfg config.Config) string {
	source := strings.TrimSuffix(cfg.SourceDir(), "/") + "/"
	args := []string{"rsync", "-avz", "--partial", "--inplace",
		"-e", "ssh " + strings.Join(sshArgs(cfg), " ")}
	args = append(args, excludeArgs(cfg.EffectiveExcludes())...)
	args = append(args, source, cfg.Target()+":"+cfg.Remote.Path)
	return shellquote.Join(args...)
}

// mkdirCommand creates a remote directory, parents included.
func mkdirCommand(dir string) string {
	return shellquote.Join("mkdir", "-p", dir)
}

// testDirCommand checks whether a remote directory exists. A first deploy
// has nothing on the remote yet; the exit status tells the two cases apart.
func testDirCommand(dir string) string {
	return shellquote.Join("test", "-d", dir)
}

// tarCommand archives the remote WordPress tree into the staging directory.
func tarCommand(cfg config.Config, stagingDir string) string {
	archive := path.Join(stagingDir, filesArchiveName)
	return shellquote.Join("tar", "-czf", archive, "-C", cfg.Remote.Path, ".")
}

// dumpCommand archives the remote database into the staging directory.
func dumpCommand(cfg config.Config, stagingDir string) string {
	archive := path.Join(stagingDir, databaseArchiveName)
	dump := shellquote.Join(append([]string{"mysqldump"}, mysqlArgs(cfg)...)...)
	return fmt.Sprintf("%s%s | gzip > %s", mysqlPassword(cfg), dump, shellquote.Join(archive))
}

// importCommand streams an uploaded dump into the remote database.
func importCommand(cfg config.Config, remoteDump string) string {
	load := shellquote.Join(append([]string{"mysql"}, mysqlArgs(cfg)...)...)
	return fmt.Sprintf("gunzip -c %s | %s%s", shellquote.Join(remoteDump), mysqlPassword(cfg), load)
}

// removeCommand deletes the uploaded dump after a successful import.
func removeCommand(remoteDump string) string {
	return shellquote.Join("rm", "-f", remoteDump)
}

// mysqlArgs builds the arguments shared by mysql and mysqldump. Both tools
// expect the database name last.
func mysqlArgs(cfg config.Config) []string {
	return []string{"-h", cfg.Database.Host, "-u", cfg.Database.User, cfg.Database.Name}
}

// mysqlPassword renders the password as an environment assignment so it
// stays out of the remote process list. An empty password adds nothing.
func mysqlPassword(cfg config.Config) string {
	if cfg.Database.Password == "" {
		return ""
	}
	return "MYSQL_PWD=" + shellquote.Join(cfg.Database.Password) + " "
}
