// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command ownstress stress-tests the own ownership handles.
package main

import "code.hybscloud.com/own/internal/cmd"

func main() {
	cmd.Execute()
}
