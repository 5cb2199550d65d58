// Package naming derives backup file names for patched archives.
//
// A backup sits next to its archive with a suffix inserted before the
// extension ("grass.usdz" -> "grass_backup.usdz"). [IsBackup] recognizes
// such names so discovery can leave earlier backups alone.
package naming
