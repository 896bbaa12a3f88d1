// This file is part of imageboot
// Copyright 2020 Intel Corporation
// SPDX-License-Identifier: GPL-3.0-only

package loaderentry

import (
	"gopkg.in/check.v1"
)

type cmdlineSuite struct {
	mapFsMixin
}

var _ = check.Suite(&cmdlineSuite{})

func (s *cmdlineSuite) TestKernelCmdline(c *check.C) {
	c.Assert(s.fs.WriteFile("/rootfs/usr/lib/kernel/cmdline-5.13.12-1047.native",
		[]byte("root=PARTUUID=6f11f84d quiet console=tty0 rw\n"), 0644), check.IsNil)

	args, err := KernelCmdline("/rootfs")
	c.Assert(err, check.IsNil)
	c.Check(args, check.Equals, "root=PARTUUID=6f11f84d quiet console=tty0 rw")
}

func (s *cmdlineSuite) TestKernelCmdlineIgnoresOtherFiles(c *check.C) {
	c.Assert(s.fs.WriteFile("/rootfs/usr/lib/kernel/cmdline-5.13.12-1047.native", []byte("quiet\n"), 0644), check.IsNil)
	c.Assert(s.fs.WriteFile("/rootfs/usr/lib/kernel/org.clearlinux.native.5.13.12-1047", []byte("kernel"), 0644), check.IsNil)
	c.Assert(s.fs.WriteFile("/rootfs/usr/lib/kernel/config-5.13.12-1047.native", []byte(""), 0644), check.IsNil)

	args, err := KernelCmdline("/rootfs")
	c.Assert(err, check.IsNil)
	c.Check(args, check.Equals, "quiet")
}

func (s *cmdlineSuite) TestKernelCmdlineNone(c *check.C) {
	c.Assert(s.fs.MkdirAll("/rootfs/usr/lib/kernel", 0755), check.IsNil)

	_, err := KernelCmdline("/rootfs")
	c.Assert(err, check.ErrorMatches, `Unable to find specific cmdline file in /rootfs/usr/lib/kernel, found \[\] instead`)
}

func (s *cmdlineSuite) TestKernelCmdlineSeveralKernels(c *check.C) {
	c.Assert(s.fs.WriteFile("/rootfs/usr/lib/kernel/cmdline-5.13.12-1047.native", []byte("quiet\n"), 0644), check.IsNil)
	c.Assert(s.fs.WriteFile("/rootfs/usr/lib/kernel/cmdline-5.14.0-1050.native", []byte("quiet\n"), 0644), check.IsNil)

	_, err := KernelCmdline("/rootfs")
	c.Assert(err, check.ErrorMatches,
		`Unable to find specific cmdline file in .*, found \[cmdline-5.13.12-1047.native cmdline-5.14.0-1050.native\] instead`)
}

func (s *cmdlineSuite) TestKernelCmdlineMissingDir(c *check.C) {
	_, err := KernelCmdline("/rootfs")
	c.Assert(err, check.ErrorMatches, "Could not list kernel directory: .*")
}
