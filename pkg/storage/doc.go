// Package storage saves downloaded reels to disk.
//
// Manager writes each reel to a temporary file in the output directory and
// renames it into place, so a half written video is never visible under its
// final name. When the target name is taken the file is saved as
// "instagram-reel (1).mp4", "instagram-reel (2).mp4" and so on, unless the
// manager was created with overwrite enabled.
//
//	manager, err := storage.NewManager("downloads", false)
//	if err != nil {
//	    return err
//	}
//	path, err := manager.Save(ctx, "instagram-reel.mp4", data)
package storage
