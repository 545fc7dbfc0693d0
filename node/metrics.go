// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import "github.com/vechain/stakepool/metrics"

var (
	metricOpCount    = metrics.LazyLoadCounterVec("node_op_count", []string{"op", "result"})
	metricOpDuration = metrics.LazyLoadHistogramVec("node_op_duration_ms", []string{"op"}, metrics.BucketOps)
	metricOpSeq      = metrics.LazyLoadGauge("node_op_seq")
)
