//go:build e2e

package e2e

import (
	"fmt"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ec3io/ec3/cmd/ec3/handlers"
	"github.com/ec3io/ec3/internal/shell"
)

var _ = Describe("Cluster lifecycle", Ordered, func() {
	const (
		statusTimeout  = 2 * time.Minute
		statusInterval = 5 * time.Second
		sshTimeout     = 10 * time.Minute
	)

	// requireSSHKey skips specs that open SSH sessions when no private
	// key was provided for the key pair.
	requireSSHKey := func() {
		if sshKeyPath == "" {
			Skip("EC3_E2E_SSH_KEY not set, skipping remote execution specs")
		}
	}

	It("launches every node", func() {
		Expect(clu.Launch(suiteCtx)).To(Succeed())
	})

	It("reports every node running", func() {
		Eventually(func(g Gomega) {
			statuses, err := clu.Status(suiteCtx)
			g.Expect(err).NotTo(HaveOccurred())
			g.Expect(statuses).To(HaveLen(cfg.NodeCount))
			for _, st := range statuses {
				g.Expect(st.State).To(Equal("running"), "node %s", st.Name)
			}
		}, statusTimeout, statusInterval).Should(Succeed())
	})

	It("exposes master and worker addresses", func() {
		addrs, err := clu.Addresses(suiteCtx)
		Expect(err).NotTo(HaveOccurred())
		Expect(addrs.MasterPublicIP).NotTo(BeEmpty())
		Expect(addrs.MasterPrivateIP).NotTo(BeEmpty())
		Expect(addrs.WorkerPublicIPs).To(HaveLen(cfg.NodeCount - 1))
		Expect(addrs.WorkerPrivateIPs).To(HaveLen(cfg.NodeCount - 1))
	})

	It("answers commands on every node", func() {
		requireSSHKey()

		sh, err := clu.Shell(suiteCtx)
		Expect(err).NotTo(HaveOccurred())

		By("waiting for sshd on all nodes")
		Expect(sh.WaitForReady(suiteCtx, sshTimeout)).To(Succeed())

		results := sh.RunOnAll(suiteCtx, "hostname")
		Expect(results).To(HaveLen(cfg.NodeCount))
		Expect(shell.Failed(results)).To(BeEmpty())

		seen := map[string]bool{}
		for _, res := range results {
			hostname := strings.TrimSpace(res.Output)
			Expect(hostname).NotTo(BeEmpty())
			seen[hostname] = true
		}
		Expect(seen).To(HaveLen(cfg.NodeCount), "every node answers with its own hostname")
	})

	It("seeds passwordless SSH from the master to the workers", func() {
		requireSSHKey()

		Expect(handlers.SSHSetup(suiteCtx, cfgPath)).To(Succeed())

		addrs, err := clu.Addresses(suiteCtx)
		Expect(err).NotTo(HaveOccurred())
		Expect(addrs.WorkerPrivateIPs).NotTo(BeEmpty())

		sh, err := clu.Shell(suiteCtx)
		Expect(err).NotTo(HaveOccurred())

		By("opening a session from the master to the first worker")
		hop := fmt.Sprintf("ssh -o StrictHostKeyChecking=accept-new %s hostname", addrs.WorkerPrivateIPs[0])
		res, err := sh.RunOnMaster(suiteCtx, hop)
		Expect(err).NotTo(HaveOccurred(), "output: %s", res.Output)
		Expect(strings.TrimSpace(res.Output)).NotTo(BeEmpty())

		By("checking the generated hostfile")
		res, err = sh.RunOnMaster(suiteCtx, "cat ~/hostfile")
		Expect(err).NotTo(HaveOccurred())
		for _, ip := range addrs.WorkerPrivateIPs {
			Expect(res.Output).To(ContainSubstring(ip))
		}
	})

	It("serves the day-two CLI handlers", func() {
		Expect(handlers.Describe(suiteCtx, cfgPath)).To(Succeed())
		if sshKeyPath != "" {
			Expect(handlers.Run(suiteCtx, handlers.RunOptions{ConfigPath: cfgPath, All: true}, "uptime")).To(Succeed())
		}
	})

	It("terminates the cluster", func() {
		Expect(clu.Terminate(suiteCtx, false)).To(Succeed())

		Eventually(func(g Gomega) {
			up, err := clu.AnyNodeRunningOrPending(suiteCtx)
			g.Expect(err).NotTo(HaveOccurred())
			g.Expect(up).To(BeFalse())
		}, statusTimeout, statusInterval).Should(Succeed())
	})
})
