package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "wpship",
		Short:         "Wpship deploys a local WordPress site to a remote host",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	persistent := cmd.PersistentFlags()
	persistent.String("config", "", "config file (default wpship.yml in the working directory)")
	persistent.String("host", "", "remote host to deploy to")
	persistent.Int("port", 22, "ssh port on the remote host")
	persistent.String("user", "", "ssh user on the remote host")
	persistent.String("remote-path", "", "WordPress document root on the remote host")
	persistent.String("local-root", "", "local project root (default current directory)")
	persistent.String("wp-root", "", "WordPress directory inside the project root")
	persistent.StringArray("exclude", nil, "sync exclude pattern (repeatable, replaces configured excludes)")
	persistent.Bool("skip-backup", false, "skip the remote snapshot before syncing")
	persistent.String("backup-dir", "", "local directory for downloaded snapshots")
	persistent.String("db-dump", "", "database dump to import (file, directory, or glob)")
	persistent.String("db-name", "", "remote database name")
	persistent.String("db-user", "", "remote database user")
	persistent.String("db-host", "", "database host as seen from the remote")
	persistent.Bool("skip-database", false, "skip the database import even when a dump is configured")
	persistent.Int("retries", 0, "attempts for sync and database import")
	persistent.String("log-level", "", "log level (debug|info|warn|error)")
	persistent.String("format", "pretty", "output format (pretty|json)")
	persistent.Bool("dry-run", false, "print commands without executing them")
	persistent.BoolP("verbose", "v", false, "stream command output in real time")
	persistent.BoolP("yes", "y", false, "assume yes and never prompt")

	cmd.AddCommand(newDeployCmd())
	cmd.AddCommand(newBackupCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}
