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
package build

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSetReleaseInfo(t *testing.T) {
	defer SetReleaseInfo("dev", "none", "unknown")

	require.True(t, GetInfo().GoTime().IsZero())

	SetReleaseInfo("v1.2.0", "abc123", "2019-05-01T10:00:00Z")
	info := GetInfo()
	require.Equal(t, "v1.2.0", info.Tag)
	require.Equal(t, "abc123", info.Revision)
	require.Equal(t, time.Date(2019, 5, 1, 10, 0, 0, 0, time.UTC), info.GoTime().UTC())
	require.Contains(t, info.Short(), "veritree v1.2.0")
}
