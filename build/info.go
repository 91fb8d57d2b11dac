/*
   Copyright 2018-2019 Banco Bilbao Vizcaya Argentaria, S.A.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/
// Package build holds the release information stamped into the binary.
package build

import (
	"fmt"
	"runtime"
	"time"
)

// TimeFormat is the reference format for build dates. Release builds pass
// the date in RFC 3339, the format goreleaser uses.
const TimeFormat = time.RFC3339

var (
	tag      = "dev"
	rev      = "none"
	utcTime  = "unknown"
	platform = fmt.Sprintf("%s %s", runtime.GOOS, runtime.GOARCH)
)

// Info stores the build information
type Info struct {
	GoVersion string
	Tag       string
	Time      string
	Revision  string
	Platform  string
}

// SetReleaseInfo records the version, commit and date the linker injected
// into the main package.
func SetReleaseInfo(version, commit, date string) {
	tag, rev, utcTime = version, commit, date
}

// Short returns a pretty printed build and version summary.
func (i Info) Short() string {
	return fmt.Sprintf("veritree %s (%s, rev %s, built %s, %s)",
		i.Tag, i.Platform, i.Revision, i.Time, i.GoVersion)
}

// GoTime parses the build time and returns a time.Time, the zero time when
// it is unknown.
func (i Info) GoTime() time.Time {
	val, err := time.Parse(TimeFormat, i.Time)
	if err != nil {
		return time.Time{}
	}
	return val
}

// GetInfo returns an Info struct populated with the build information.
func GetInfo() Info {
	return Info{
		GoVersion: runtime.Version(),
		Tag:       tag,
		Time:      utcTime,
		Revision:  rev,
		Platform:  platform,
	}
}
